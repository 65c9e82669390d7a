package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"

	"go_igreja_admin/internal/audit"
	"go_igreja_admin/internal/config"
	"go_igreja_admin/internal/handlers"
	"go_igreja_admin/internal/metrics"
	"go_igreja_admin/internal/middleware"
	"go_igreja_admin/internal/report"
	"go_igreja_admin/internal/repository"
	"go_igreja_admin/internal/service"
)

// newLogger は設定と APP_ENV に応じて slog ロガーを作る
func newLogger(level string) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	return slog.New(handler)
}

func main() {
	// 設定読み込み用の一時的なロガー
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	log.Println("Log Config Loading...")

	if err := config.LoadConfig("configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := &config.Cfg

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("app", config.AppName), slog.String("version", config.AppVersion))

	if cfg.Database.URL == "" {
		slog.Error("database.url is required")
		os.Exit(1)
	}
	if cfg.Auth.Enabled && cfg.JWT.SecretKey == "" {
		slog.Error("jwt.secret_key is required when auth is enabled")
		os.Exit(1)
	}

	// 1. マイグレーション
	if cfg.Database.AutoMigrate {
		if err := repository.RunMigrations(cfg.Database.URL); err != nil {
			slog.Error("Error running migrations", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Database migrations applied")
	}

	// 2. DB 接続
	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	// 3. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 4. Dependency Injection
	repos := service.NewRepositories(db)
	aggregator := report.NewAggregator(repos.Reports, report.WithChartMonths(cfg.Report.ChartMonths))
	sink := audit.Multi(audit.NewLogSink(logger), audit.NewMetricsSink(collector))
	storage := service.NewStorage(repos, aggregator, sink)
	mailer, err := service.NewMailer(context.Background(), cfg)
	if err != nil {
		slog.Error("Error initializing mailer", slog.String("type", cfg.Mailer.Type), slog.Any("error", err))
		os.Exit(1)
	}
	authService := service.NewAuthService(repos.Users, storage, mailer, cfg)
	api := handlers.NewAPI(storage, authService, cfg.Billing.WebhookSecret, logger)

	authn := middleware.JWTAuthMiddleware(cfg)
	if !cfg.Auth.Enabled {
		slog.Warn("Authentication disabled: using X-Igreja-ID header middleware")
		authn = middleware.DevIgrejaContextMiddleware
	}

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.RequestDetailLoggingMiddleware(logger))
	r.Use(metrics.Middleware(collector))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Igreja-ID", "X-User-Role", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		api.Routes(r, authn)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	// 6. Start Server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
