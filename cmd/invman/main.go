package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/app"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/observability"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/platform/cache"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/platform/db"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports"
	reporthttp "github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports/http"
	"github.com/MALVIS-KAGIRI/Inventory-management3/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, report caching disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	reportRepo := reports.NewSQLRepository(pool)
	reportCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}
	reportService := reports.NewService(reportRepo, reportCache, logger, reports.Options{
		AuditAdjustmentThreshold: cfg.AuditAdjustmentThreshold,
		PriceDrift:               cfg.PriceDriftAssumption,
	}, reports.CompoundGrowthForecast{
		Rate:    cfg.ForecastGrowthRate,
		Periods: cfg.ForecastPeriods,
	})
	reportHandler := reporthttp.NewHandler(logger, reportService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:        logger,
		Config:        cfg,
		ReportHandler: reportHandler,
		JobHandler:    jobHandler,
		Metrics:       metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
