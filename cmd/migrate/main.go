// migrate はスキーマのマイグレーションと初期プランの投入を行う管理コマンド。
//
//	go run ./cmd/migrate [-config configs] up|down|version|seed-plans
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/shopspring/decimal"

	"go_igreja_admin/internal/config"
	"go_igreja_admin/internal/model"
	"go_igreja_admin/internal/repository"
	"go_igreja_admin/internal/service"
)

// defaultPlans は seed-plans で投入するプラン
var defaultPlans = []model.PlanInput{
	{Name: "Básico", Price: decimal.RequireFromString("49.90"), Interval: model.IntervalMonthly},
	{Name: "Completo", Price: decimal.RequireFromString("99.90"), Interval: model.IntervalMonthly},
	{Name: "Completo Anual", Price: decimal.RequireFromString("999.00"), Interval: model.IntervalYearly},
}

func main() {
	configPath := flag.String("config", "configs", "directory containing config.yaml")
	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: migrate [-config dir] [-steps n] up|down|version|seed-plans")
		os.Exit(2)
	}
	if err := config.LoadConfig(*configPath); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}
	if config.Cfg.Database.URL == "" {
		slog.Error("database.url is required")
		os.Exit(1)
	}

	if err := run(flag.Arg(0), config.Cfg.Database.URL, *steps, logger); err != nil {
		slog.Error("Command failed", slog.String("command", flag.Arg(0)), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(command, databaseURL string, steps int, logger *slog.Logger) error {
	switch command {
	case "up":
		if err := repository.RunMigrations(databaseURL); err != nil {
			return err
		}
		logger.Info("Migrations applied")
		return nil
	case "down":
		m, err := repository.NewMigrator(databaseURL)
		if err != nil {
			return err
		}
		defer m.Close()
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		logger.Info("Migrations rolled back", slog.Int("steps", steps))
		return nil
	case "version":
		m, err := repository.NewMigrator(databaseURL)
		if err != nil {
			return err
		}
		defer m.Close()
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Info("No migration applied yet")
			return nil
		}
		if err != nil {
			return err
		}
		logger.Info("Current migration version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		return nil
	case "seed-plans":
		return seedPlans(databaseURL, logger)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// seedPlans は同名のプランが無いものだけを作成する
func seedPlans(databaseURL string, logger *slog.Logger) error {
	db, err := repository.NewDB(databaseURL, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx := context.Background()
	storage := service.NewStorage(service.NewRepositories(db), nil, nil)
	existing, err := storage.ListPlans(ctx, false)
	if err != nil {
		return err
	}
	names := make(map[string]bool, len(existing))
	for _, p := range existing {
		names[p.Name] = true
	}

	for i := range defaultPlans {
		input := defaultPlans[i]
		if names[input.Name] {
			logger.Info("Plan already exists", slog.String("name", input.Name))
			continue
		}
		plan, err := storage.CreatePlan(ctx, &input)
		if err != nil {
			return err
		}
		logger.Info("Plan created", slog.String("name", plan.Name), slog.Uint64("id", uint64(plan.ID)))
	}
	return nil
}
