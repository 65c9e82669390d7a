package repository

import (
	"context"
	"testing"

	"go_igreja_admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPastorRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	first := createIgreja(t, db, "First Church")
	second := createIgreja(t, db, "Second Church")
	repo := NewGormPastorRepository(db)

	pastor, err := repo.Create(ctx, first.ID, &model.PastorInput{Name: "Rev. Paulo", BondType: model.BondElected, OrdinationYear: ptr(1998)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, first.ID, &model.PastorInput{Name: "Rev. Ana", BondType: model.BondAuxiliary})
	require.NoError(t, err)

	t.Run("正常系: GetAll は名前順", func(t *testing.T) {
		all, err := repo.GetAll(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Rev. Ana", all[0].Name)
		assert.Equal(t, "Rev. Paulo", all[1].Name)
	})

	t.Run("正常系: 任期を追加して GetByID で取得", func(t *testing.T) {
		term, err := repo.CreateTerm(ctx, first.ID, &model.PastorTermInput{
			PastorID:  pastor.ID,
			StartDate: "2015-03-01",
			EndDate:   ptr("2019-02-28"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.TermActive, term.Status)

		got, err := repo.GetByID(ctx, first.ID, pastor.ID)
		require.NoError(t, err)
		require.Len(t, got.Terms, 1)
		assert.Equal(t, "2019-02-28", got.Terms[0].EndDate.Format(model.DateLayout))
		assert.Equal(t, model.TermActive, got.Terms[0].Status)
		assert.Equal(t, model.TermInactive, got.Terms[0].EffectiveStatus)
	})

	t.Run("正常系: UpdateTerm で終了日を空にする", func(t *testing.T) {
		terms, err := repo.GetTerms(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, terms, 1)

		assert.Equal(t, model.TermInactive, terms[0].EffectiveStatus)

		got, err := repo.UpdateTerm(ctx, first.ID, terms[0].ID, &model.PastorTermPatch{EndDate: ptr("")})
		require.NoError(t, err)
		assert.Nil(t, got.EndDate)
		assert.Equal(t, model.TermActive, got.EffectiveStatus)
	})

	t.Run("異常系: 他テナントからは見えず変更もできない", func(t *testing.T) {
		_, err := repo.GetByID(ctx, second.ID, pastor.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		_, err = repo.Update(ctx, second.ID, pastor.ID, &model.PastorPatch{Name: ptr("X")})
		assert.ErrorIs(t, err, model.ErrUnauthorized)

		_, err = repo.CreateTerm(ctx, second.ID, &model.PastorTermInput{PastorID: pastor.ID, StartDate: "2020-01-01"})
		assert.ErrorIs(t, err, model.ErrUnauthorized)
	})

	t.Run("異常系: 不正な叙任年", func(t *testing.T) {
		_, err := repo.Update(ctx, first.ID, pastor.ID, &model.PastorPatch{OrdinationYear: ptr(1800)})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("正常系: Delete は任期も削除する", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, first.ID, pastor.ID))
		_, err := repo.GetByID(ctx, first.ID, pastor.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		terms, err := repo.GetTerms(ctx, first.ID)
		require.NoError(t, err)
		assert.Empty(t, terms)
	})
}
