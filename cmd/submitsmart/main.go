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

	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/app"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/extraction"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/ledger"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/observability"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/platform/cache"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/platform/db"
	"github.com/TaxStatsCloud/SubmitSmart-sub005/internal/tax"
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

	metrics := observability.NewMetrics()

	coa := ledger.DefaultChart()
	repo := trialbalance.NewRepository(pool)
	snapshotCache := trialbalance.NewCache(redisClient, cfg.CacheTTL)
	ledgerService := trialbalance.NewService(repo, coa, snapshotCache, logger)
	trialBalanceHandler := trialbalance.NewHandler(logger, ledgerService, metrics)

	taxHandler := tax.NewHandler(logger, metrics)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	extractionHandler := extraction.NewHandler(logger, jobClient)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		TrialBalanceHandler: trialBalanceHandler,
		TaxHandler:          taxHandler,
		ExtractionHandler:   extractionHandler,
		JobHandler:          jobHandler,
		Pool:                pool,
		Metrics:             metrics,
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
