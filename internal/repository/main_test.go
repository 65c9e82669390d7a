package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"go_igreja_admin/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB はテストごとに独立したインメモリ DB を作成する
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), NewGormConfig(testLogger))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// トランザクション中に別接続を使うとデッドロックするので1本に絞る
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

// createIgreja はテスト用の教会を直接作成する
func createIgreja(t *testing.T, db *gorm.DB, name string) *model.Igreja {
	t.Helper()
	igreja := &model.Igreja{Name: name}
	require.NoError(t, db.Create(igreja).Error)
	return igreja
}

func createMember(t *testing.T, repo MemberRepository, igrejaID uint, name string) *model.Member {
	t.Helper()
	m, err := repo.Create(context.Background(), igrejaID, &model.MemberInput{
		Name:          name,
		Type:          model.MemberCommunicant,
		AdmissionMode: model.AdmissionBaptism,
	})
	require.NoError(t, err)
	return m
}

func ptr[V any](v V) *V {
	return &v
}
