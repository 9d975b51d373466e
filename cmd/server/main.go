package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/dqi/internal/config"
	"github.com/JonMunkholm/dqi/internal/core"
	"github.com/JonMunkholm/dqi/internal/dqi"
	"github.com/JonMunkholm/dqi/internal/logging"
	"github.com/JonMunkholm/dqi/internal/metrics"
	"github.com/JonMunkholm/dqi/internal/store"
	"github.com/JonMunkholm/dqi/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store_driver", cfg.Store.Driver,
		"analysis_max_concurrent", cfg.Analysis.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()
	reports, err := store.Open(ctx, cfg.Store)
	if err != nil {
		slog.Error("failed to open report store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	engine := dqi.New(
		dqi.WithParallelism(cfg.Analysis.Parallelism),
		dqi.WithLogger(logger),
	)

	service := core.NewService(engine, reports, core.ServiceOptions{
		MaxFileSize:   cfg.Analysis.MaxFileSize,
		MaxConcurrent: cfg.Analysis.MaxConcurrent,
		MaxWait:       cfg.Analysis.MaxWaitTime,
		Timeout:       cfg.Analysis.Timeout,
		Metrics:       m,
		Logger:        logger,
	})
	defer service.Close()

	server := web.NewServer(service, cfg, m)

	// Background jobs stop when jobCtx is cancelled
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	go service.StartRetention(jobCtx, core.RetentionConfig{
		Retention: cfg.Store.Retention,
		Interval:  cfg.Store.PruneInterval,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for analyses to complete", "active", status.Active)
			if err := service.WaitForAnalyses(shutdownCtx); err != nil {
				slog.Warn("analyses did not complete in time", "error", err)
			} else {
				slog.Info("all analyses completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(jobCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
