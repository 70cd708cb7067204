package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/app"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/extraction"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/platform/cache"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/platform/db"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/trialbalance"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/jobs"
)

func main() {
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
		logger.Warn("redis unavailable, snapshot cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	coa := ledger.DefaultChart()
	repo := trialbalance.NewRepository(pool)
	snapshotCache := trialbalance.NewCache(redisClient, cfg.CacheTTL)
	ledgerService := trialbalance.NewService(repo, coa, snapshotCache, logger)
	extractionService := extraction.NewService(ledgerService, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:      logger,
		Extractions: extractionService,
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
