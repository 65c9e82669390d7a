package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTermStatusAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	past := time.Date(2014, 2, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status TermStatus
		end    *time.Time
		want   TermStatus
	}{
		{name: "正常系: 終了日なしの active はそのまま", status: TermActive, end: nil, want: TermActive},
		{name: "正常系: 終了日を過ぎた active は inactive", status: TermActive, end: &past, want: TermInactive},
		{name: "正常系: 終了日当日はまだ active", status: TermActive, end: &today, want: TermActive},
		{name: "正常系: 終了日が未来なら active", status: TermActive, end: &future, want: TermActive},
		{name: "正常系: active 以外の状態は変えない", status: TermEmeritus, end: &past, want: TermEmeritus},
		{name: "正常系: on_leave も変えない", status: TermOnLeave, end: nil, want: TermOnLeave},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			term := Term{Status: tt.status, EndDate: tt.end}
			assert.Equal(t, tt.want, term.StatusAt(now))

			pastorTerm := PastorTerm{Status: tt.status, EndDate: tt.end}
			assert.Equal(t, tt.want, pastorTerm.StatusAt(now))
		})
	}

	t.Run("正常系: 読み込み時に effective_status が計算され、保存値は変わらない", func(t *testing.T) {
		term := &Term{Status: TermActive, EndDate: &past}
		assert.NoError(t, term.AfterFind(nil))
		assert.Equal(t, TermInactive, term.EffectiveStatus)
		assert.Equal(t, TermActive, term.Status)

		pastorTerm := &PastorTerm{Status: TermActive, EndDate: &past}
		assert.NoError(t, pastorTerm.AfterFind(nil))
		assert.Equal(t, TermInactive, pastorTerm.EffectiveStatus)
	})
}
