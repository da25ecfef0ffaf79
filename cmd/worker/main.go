package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/app"
	jobmetrics "github.com/MALVIS-KAGIRI/Inventory-management3/internal/jobs"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/mailer"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/platform/cache"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/platform/db"
	"github.com/MALVIS-KAGIRI/Inventory-management3/internal/reports"
	"github.com/MALVIS-KAGIRI/Inventory-management3/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("connect database", slog.Any("error", err))
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
	reportService := reports.NewService(reportRepo, reportCache, logger, reports.Options{
		AuditAdjustmentThreshold: cfg.AuditAdjustmentThreshold,
		PriceDrift:               cfg.PriceDriftAssumption,
	}, reports.CompoundGrowthForecast{
		Rate:    cfg.ForecastGrowthRate,
		Periods: cfg.ForecastPeriods,
	})

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, logger)

	metrics := jobmetrics.NewMetrics(nil)
	lowStockJob := jobs.NewLowStockAlertJob(reportRepo, mail, cfg.AlertRecipients, logger, metrics)
	summaryJob := jobs.NewWeeklySummaryJob(reportService, mail, cfg.AlertRecipients, logger, metrics)

	lowStockTask, err := jobs.NewLowStockAlertTask(jobs.LowStockAlertPayload{})
	if err != nil {
		logger.Error("build low stock task", slog.Any("error", err))
		os.Exit(1)
	}
	summaryTask, err := jobs.NewWeeklySummaryTask(jobs.WeeklySummaryPayload{})
	if err != nil {
		logger.Error("build weekly summary task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeLowStockAlert, Handler: lowStockJob.Handle},
			{Type: jobs.TaskTypeWeeklySummary, Handler: summaryJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: jobs.CronLowStockAlert, Task: lowStockTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: jobs.CronWeeklySummary, Task: summaryTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
