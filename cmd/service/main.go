// Package main is the entry point for the quote HTTP service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/insurance-quote-service/internal/adapters/http"
	"github.com/jsamuelsen/insurance-quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/insurance-quote-service/internal/app"
	"github.com/jsamuelsen/insurance-quote-service/internal/domain/pricing"
	"github.com/jsamuelsen/insurance-quote-service/internal/platform/config"
	"github.com/jsamuelsen/insurance-quote-service/internal/platform/logging"
	"github.com/jsamuelsen/insurance-quote-service/internal/platform/telemetry"
	"github.com/jsamuelsen/insurance-quote-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.Any("stages", cfg.Pricing.Stages),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Stages:       cfg.Pricing.Stages,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	pipeline, err := pricing.DefaultRegistry().Build(pricing.BasePrice, cfg.Pricing.Stages)
	if err != nil {
		return fmt.Errorf("building pricing pipeline: %w", err)
	}

	metrics, err := app.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Pipeline: pipeline,
		Logger:   logger,
		Metrics:  metrics,
	})

	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(quoteService); err != nil {
		return fmt.Errorf("registering pricing health check: %w", err)
	}

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime).WithPricing(quoteService, cfg.Pricing.Currency)

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:   cfg.Telemetry.ServiceName,
		Logger:        logger,
		HealthHandler: handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer),
		QuoteHandler:  handlers.NewQuoteHandler(quoteService, cfg.Pricing.Currency),
		Timeout:       cfg.Server.RequestTimeout,
	})

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal or a server error, then
// drains in-flight requests within shutdownTimeout.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
