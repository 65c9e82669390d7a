package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout は日付のみのカラムの正規形式
const DateLayout = "2006-01-02"

// DateNormalizer は保存前に日付フィールドを正規化できるモデルが実装する
type DateNormalizer interface {
	NormalizeDates()
}

// TruncateDate は時刻を UTC の 0 時に切り詰める
func TruncateDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// TruncateDatePtr は nil を許容する TruncateDate
func TruncateDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := TruncateDate(*t)
	return &d
}

// ParseDate は文字列 (YYYY-MM-DD / RFC3339) または time.Time を日付に変換する。
// 空文字列と nil は nil を返す。
func ParseDate(v any) (*time.Time, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		d := TruncateDate(val)
		return &d, nil
	case *time.Time:
		return TruncateDatePtr(val), nil
	case string:
		return parseDateString(val)
	case *string:
		if val == nil {
			return nil, nil
		}
		return parseDateString(*val)
	default:
		return nil, fmt.Errorf("%w: unsupported date value %T", ErrInvalidInput, v)
	}
}

func parseDateString(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			d := TruncateDate(t)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidInput, s)
}

// Period はレポートの対象期間 (両端を含む)
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains は t が期間内かどうかを返す
func (p *Period) Contains(t time.Time) bool {
	if p == nil {
		return true
	}
	return !t.Before(p.From) && !t.After(p.To)
}

// Inclusive は To の日の終わりまでを含む期間を返す
func (p *Period) Inclusive() *Period {
	if p == nil {
		return nil
	}
	return &Period{
		From: TruncateDate(p.From),
		To:   TruncateDate(p.To).Add(24*time.Hour - time.Nanosecond),
	}
}
