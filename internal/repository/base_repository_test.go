package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/querybuilder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestPastorBase(db *gorm.DB) *BaseRepository[model.Pastor] {
	return NewBaseRepository[model.Pastor](db, "testPastorBase")
}

func seedPastors(t *testing.T, base *BaseRepository[model.Pastor], igrejaID uint, names ...string) []model.Pastor {
	t.Helper()
	out := make([]model.Pastor, 0, len(names))
	for _, n := range names {
		p := &model.Pastor{IgrejaID: igrejaID, Name: n, BondType: model.BondElected}
		require.NoError(t, base.Create(context.Background(), p))
		out = append(out, *p)
	}
	return out
}

func TestBaseRepository_FindByID(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	igreja := createIgreja(t, db, "First Church")
	base := newTestPastorBase(db)
	seeded := seedPastors(t, base, igreja.ID, "Rev. A")

	t.Run("正常系: 存在するIDを取得", func(t *testing.T) {
		got, err := base.FindByID(ctx, seeded[0].ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Rev. A", got.Name)
	})

	t.Run("正常系: 存在しないIDは nil, nil", func(t *testing.T) {
		got, err := base.FindByID(ctx, 9999)
		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("異常系: IDが0", func(t *testing.T) {
		got, err := base.FindByID(ctx, 0)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Nil(t, got)
	})
}

func TestBaseRepository_Create_GeneratesUniqueIDs(t *testing.T) {
	db := setupTestDB(t)
	igreja := createIgreja(t, db, "First Church")
	base := newTestPastorBase(db)

	seeded := seedPastors(t, base, igreja.ID, "A", "B", "C")
	seen := map[uint]bool{}
	for _, p := range seeded {
		assert.NotZero(t, p.ID)
		assert.False(t, seen[p.ID], "id %d is duplicated", p.ID)
		seen[p.ID] = true
	}
}

func TestBaseRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	igreja := createIgreja(t, db, "First Church")
	terms := NewBaseRepository[model.PastorTerm](db, "testTermBase", WithDateColumns(model.PastorTermDateColumns...))
	pastor := seedPastors(t, newTestPastorBase(db), igreja.ID, "Rev. A")[0]

	term := &model.PastorTerm{IgrejaID: igreja.ID, PastorID: pastor.ID, StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Status: model.TermActive}
	require.NoError(t, terms.Create(ctx, term))

	tests := []struct {
		name    string
		id      uint
		updates map[string]any
		wantErr error
		check   func(t *testing.T, got *model.PastorTerm)
	}{
		{
			name:    "正常系: 文字列の日付を正規化して更新",
			id:      term.ID,
			updates: map[string]any{"end_date": "2023-06-30T15:04:05Z"},
			check: func(t *testing.T, got *model.PastorTerm) {
				require.NotNil(t, got.EndDate)
				assert.True(t, got.EndDate.Equal(time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)))
			},
		},
		{
			name:    "正常系: 空文字の日付は NULL",
			id:      term.ID,
			updates: map[string]any{"end_date": ""},
			check: func(t *testing.T, got *model.PastorTerm) {
				assert.Nil(t, got.EndDate)
			},
		},
		{
			name:    "異常系: 不正な日付",
			id:      term.ID,
			updates: map[string]any{"start_date": "31/12/2020"},
			wantErr: model.ErrInvalidInput,
		},
		{
			name:    "異常系: 存在しないID",
			id:      9999,
			updates: map[string]any{"status": "inactive"},
			wantErr: model.ErrNotFound,
		},
		{
			name:    "異常系: IDが0",
			id:      0,
			updates: map[string]any{"status": "inactive"},
			wantErr: model.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := terms.Update(ctx, tt.id, tt.updates)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestBaseRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	igreja := createIgreja(t, db, "First Church")
	base := newTestPastorBase(db)
	pastor := seedPastors(t, base, igreja.ID, "Rev. A")[0]

	deleted, err := base.Delete(ctx, pastor.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	// 2回目は存在しないので false (エラーにはならない)
	deleted, err = base.Delete(ctx, pastor.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = base.Delete(ctx, 12345)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = base.Delete(ctx, 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestBaseRepository_Find(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	first := createIgreja(t, db, "First Church")
	second := createIgreja(t, db, "Second Church")
	base := newTestPastorBase(db)
	seedPastors(t, base, first.ID, "Carlos", "Ana", "Bruno")
	seedPastors(t, base, second.ID, "Ana")

	got, err := base.Find(ctx, FindOptions{
		Where:   map[string]any{"igreja_id": first.ID},
		OrderBy: []querybuilder.Order{{Field: "name", Direction: querybuilder.Desc}},
		Limit:   2,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Carlos", got[0].Name)
	assert.Equal(t, "Bruno", got[1].Name)

	got, err = base.Find(ctx, FindOptions{
		Where:   map[string]any{"igreja_id": first.ID},
		OrderBy: []querybuilder.Order{{Field: "name"}},
		Offset:  1,
		Limit:   10,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bruno", got[0].Name)

	_, err = base.Find(ctx, FindOptions{Where: map[string]any{"name = 'x' OR 1=1 --": 1}})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestBaseRepository_Paginate(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	igreja := createIgreja(t, db, "First Church")
	base := newTestPastorBase(db)
	seedPastors(t, base, igreja.ID, "A", "B", "C", "D", "E")

	tests := []struct {
		name           string
		page, pageSize int
		wantLen        int
		wantTotalPages int
		wantErr        error
	}{
		{name: "正常系: 1ページ目", page: 1, pageSize: 2, wantLen: 2, wantTotalPages: 3},
		{name: "正常系: 最終ページは端数", page: 3, pageSize: 2, wantLen: 1, wantTotalPages: 3},
		{name: "正常系: 範囲外のページは空", page: 4, pageSize: 2, wantLen: 0, wantTotalPages: 3},
		{name: "正常系: pageSize が総数以上なら1ページ", page: 1, pageSize: 10, wantLen: 5, wantTotalPages: 1},
		{name: "異常系: page が0", page: 0, pageSize: 10, wantErr: model.ErrInvalidInput},
		{name: "異常系: pageSize が0", page: 1, pageSize: 0, wantErr: model.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := base.Paginate(ctx, tt.page, tt.pageSize)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, got.Data)
			assert.Len(t, got.Data, tt.wantLen)
			assert.EqualValues(t, 5, got.Total)
			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.wantTotalPages, got.TotalPages)
		})
	}
}

func TestBaseRepository_Exists(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	igreja := createIgreja(t, db, "First Church")
	base := newTestPastorBase(db)
	pastor := seedPastors(t, base, igreja.ID, "Rev. A")[0]

	ok, err := base.Exists(ctx, pastor.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = base.Exists(ctx, pastor.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = base.Exists(ctx, 0)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestBaseRepository_Transaction_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	igreja := createIgreja(t, db, "First Church")
	base := newTestPastorBase(db)
	boom := errors.New("boom")

	err := base.Transaction(ctx, func(tx *gorm.DB) error {
		p := &model.Pastor{IgrejaID: igreja.ID, Name: "Rolled back", BondType: model.BondElected}
		if err := base.create(ctx, tx, p); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Panics(t, func() {
		_ = base.Transaction(ctx, func(tx *gorm.DB) error {
			p := &model.Pastor{IgrejaID: igreja.ID, Name: "Panicked", BondType: model.BondElected}
			if err := base.create(ctx, tx, p); err != nil {
				return err
			}
			panic("unexpected")
		})
	})

	var count int64
	require.NoError(t, db.Model(&model.Pastor{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBaseRepository_EnsureTenantAccess(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	first := createIgreja(t, db, "First Church")
	second := createIgreja(t, db, "Second Church")
	base := newTestPastorBase(db)
	pastor := seedPastors(t, base, first.ID, "Rev. A")[0]

	assert.NoError(t, base.ensureTenantAccess(ctx, db, pastor.ID, first.ID))
	assert.ErrorIs(t, base.ensureTenantAccess(ctx, db, pastor.ID, second.ID), model.ErrUnauthorized)
	assert.ErrorIs(t, base.ensureTenantAccess(ctx, db, 9999, first.ID), model.ErrNotFound)
}

func TestBaseRepository_ScopedMutation(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	first := createIgreja(t, db, "First Church")
	second := createIgreja(t, db, "Second Church")
	base := newTestPastorBase(db)
	pastor := seedPastors(t, base, first.ID, "Rev. A")[0]

	called := false
	err := base.scopedMutation(ctx, pastor.ID, second.ID, func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	assert.False(t, called, "mutation must not run for another tenant")

	err = base.scopedMutation(ctx, pastor.ID, 0, func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.False(t, called)

	err = base.scopedMutation(ctx, pastor.ID, first.ID, func(tx *gorm.DB) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestBaseRepository_Create_DuplicateKeyIsConflict(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	plans := NewBaseRepository[model.Plan](db, "testPlanBase")

	require.NoError(t, plans.Create(ctx, &model.Plan{Name: "Básico", Currency: "BRL", Interval: model.IntervalMonthly, IsActive: true}))
	err := plans.Create(ctx, &model.Plan{Name: "Básico", Currency: "BRL", Interval: model.IntervalMonthly, IsActive: true})
	assert.ErrorIs(t, err, model.ErrConflict)
}
