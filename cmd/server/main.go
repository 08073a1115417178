package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/utafrali/patatpalace/internal/app"
	"github.com/utafrali/patatpalace/internal/config"
	pkgconfig "github.com/utafrali/patatpalace/pkg/config"
	"github.com/utafrali/patatpalace/pkg/logger"
)

func main() {
	// A local .env file fills in variables that are not already set.
	if err := pkgconfig.LoadDotEnv(); err != nil {
		slog.Warn("failed to read .env file", slog.String("error", err.Error()))
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger.
	log := logger.New("patat-storefront", cfg.LogLevel)
	log.Info("starting patat palace storefront",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("storage_backend", cfg.StorageBackend),
	)

	// Create the application with all dependencies wired.
	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run the application. This blocks until shutdown.
	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("patat palace storefront stopped")
}
