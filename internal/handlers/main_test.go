package handlers_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go_igreja_admin/internal/config"
	"go_igreja_admin/internal/handlers"
	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/repository"
	"go_igreja_admin/internal/service"
)

const testWebhookSecret = "whsec-test"

// testEnv は1テスト分の HTTP サーバーと依存関係
type testEnv struct {
	server  *httptest.Server
	storage *service.Storage
	db      *gorm.DB
	cfg     *config.Config
	logger  *slog.Logger
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "igreja-admin-test"
	cfg.App.FrontendURL = "http://localhost:5173"
	cfg.JWT.SecretKey = "test-secret-key"
	cfg.JWT.AccessTokenTTL = time.Hour
	cfg.Auth.ResetTokenTTL = time.Hour
	cfg.Billing.WebhookSecret = testWebhookSecret
	cfg.Mailer.Type = "log"
	return cfg
}

// setupTestEnv はインメモリ SQLite の上に本番と同じルーターを組み立てる。
// useJWT が false のときは X-Igreja-ID ヘッダーで認証する。
func setupTestEnv(t *testing.T, useJWT bool) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), repository.NewGormConfig(logger))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.AutoMigrate(db))

	cfg := testConfig()
	repos := service.NewRepositories(db)
	storage := service.NewStorage(repos, nil, nil)
	authService := service.NewAuthService(repos.Users, storage, &service.LogMailer{}, cfg)
	api := handlers.NewAPI(storage, authService, cfg.Billing.WebhookSecret, logger)

	authn := middleware.DevIgrejaContextMiddleware
	if useJWT {
		authn = middleware.JWTAuthMiddleware(cfg)
	}

	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	r.Route("/api/v1", func(r chi.Router) {
		api.Routes(r, authn)
	})

	server := httptest.NewServer(r)
	t.Cleanup(func() {
		server.Close()
		sqlDB.Close()
	})

	return &testEnv{server: server, storage: storage, db: db, cfg: cfg, logger: logger}
}

// igrejaHeaders は開発用認証ヘッダーを返す
func igrejaHeaders(igrejaID uint, role string) map[string]string {
	h := map[string]string{"X-Igreja-ID": fmt.Sprint(igrejaID)}
	if role != "" {
		h["X-User-Role"] = role
	}
	return h
}
