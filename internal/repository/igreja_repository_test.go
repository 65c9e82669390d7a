package repository

import (
	"context"
	"testing"

	"go_igreja_admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgrejaRepository_Bootstrap(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormIgrejaRepository(db)

	admin := &model.UserInput{Username: "admin", Password: "admin-password", Role: model.RoleCommon}
	igreja, user, err := repo.Bootstrap(ctx,
		&model.IgrejaInput{Name: "Igreja Presbiteriana Central", FoundedAt: ptr("1959-08-12")},
		admin,
	)
	require.NoError(t, err)
	assert.NotZero(t, igreja.ID)
	assert.Equal(t, igreja.ID, igreja.IgrejaID)
	assert.Equal(t, model.RoleAdministrator, user.Role)
	require.NotNil(t, user.IgrejaID)
	assert.Equal(t, igreja.ID, *user.IgrejaID)
	// 呼び出し側の入力は変更しない
	assert.Equal(t, model.RoleCommon, admin.Role)

	got, err := repo.GetByID(ctx, igreja.ID)
	require.NoError(t, err)
	assert.Equal(t, igreja.ID, got.IgrejaID)
	require.NotNil(t, got.FoundedAt)
	assert.Equal(t, "1959-08-12", got.FoundedAt.Format(model.DateLayout))
}

func TestIgrejaRepository_Bootstrap_RollsBack(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormIgrejaRepository(db)

	_, _, err := repo.Bootstrap(ctx, &model.IgrejaInput{Name: "A"}, &model.UserInput{Username: "admin", Password: "admin-password"})
	require.NoError(t, err)

	// ユーザー名が重複すると教会も作成されない
	_, _, err = repo.Bootstrap(ctx, &model.IgrejaInput{Name: "B"}, &model.UserInput{Username: "admin", Password: "admin-password"})
	assert.ErrorIs(t, err, model.ErrConflict)

	page, err := repo.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	_, _, err = repo.Bootstrap(ctx, &model.IgrejaInput{Name: "C"}, nil)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestIgrejaRepository_Update(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewGormIgrejaRepository(db)
	first := createIgreja(t, db, "First Church")
	second := createIgreja(t, db, "Second Church")

	got, err := repo.Update(ctx, first.ID, first.ID, &model.IgrejaPatch{City: ptr("São Paulo"), State: ptr("SP")})
	require.NoError(t, err)
	require.NotNil(t, got.City)
	assert.Equal(t, "São Paulo", *got.City)
	assert.Equal(t, first.ID, got.IgrejaID)

	_, err = repo.Update(ctx, first.ID, second.ID, &model.IgrejaPatch{Name: ptr("Hijacked")})
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
