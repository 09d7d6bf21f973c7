package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/target/recipe-finder/config"
	"github.com/target/recipe-finder/internal/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		slog.Default().ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger := bootstrap.InitLogger(cfg.Observability.Logging)

	logStartupInfo(ctx, logger, &cfg)

	infra, err := bootstrap.ConnectInfrastructure(&cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
		}
	}()

	if infra.DB != nil {
		if cfg.Postgres.RunMigrationsOnStart {
			if err = bootstrap.RunMigrations(ctx, infra.DB, logger); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
		} else {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
	}

	sink, closeMetrics := bootstrap.BuildMetricsSink(cfg.Observability.Metrics, logger)
	defer func() {
		if cerr := closeMetrics(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics failed", "error", cerr)
		}
	}()

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:  &cfg,
		Infra:   infra,
		Metrics: sink,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting recipe finder",
		"env", string(cfg.Env),
		"addr", cfg.HTTP.Addr(),
		"recipe_api", cfg.Recipes.BaseURL,
		"backends", bootstrap.ActiveBackends(cfg))
}
