package repository

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"go_igreja_admin/internal/model"

	slogGorm "github.com/orandin/slog-gorm" // slogGormはエイリアス
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewGormConfig は本番・テストで共通の GORM 設定を返す
func NewGormConfig(appLogger *slog.Logger) *gorm.Config {
	// APP_ENV=dev のときだけ SQL を全件ログに出す
	gormLogLevel := gormlogger.Warn
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	)

	return &gorm.Config{
		Logger: slogGormLogger.LogMode(gormLogLevel),
		// 保存する時刻はすべて UTC
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// 一意制約違反を gorm.ErrDuplicatedKey に変換する
		TranslateError: true,
	}
}

// NewDB は PostgreSQL への接続を作成する
func NewDB(databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), NewGormConfig(appLogger))
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	appLogger.Info("Database connection established with GORM")
	return db, nil
}

// AllModels は AutoMigrate 対象のモデル一覧 (依存順)
func AllModels() []any {
	return []any{
		&model.Igreja{},
		&model.User{},
		&model.Member{},
		&model.Group{},
		&model.GroupMember{},
		&model.Leadership{},
		&model.Term{},
		&model.Pastor{},
		&model.PastorTerm{},
		&model.Plan{},
		&model.Subscription{},
	}
}
