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

	"github.com/Josecau2/njfinish-sub001/internal/app"
	"github.com/Josecau2/njfinish-sub001/internal/auth"
	"github.com/Josecau2/njfinish-sub001/internal/catalog"
	"github.com/Josecau2/njfinish-sub001/internal/observability"
	"github.com/Josecau2/njfinish-sub001/internal/platform/cache"
	"github.com/Josecau2/njfinish-sub001/internal/platform/db"
	"github.com/Josecau2/njfinish-sub001/internal/proposals"
	"github.com/Josecau2/njfinish-sub001/internal/rates"
	"github.com/Josecau2/njfinish-sub001/internal/shared"
	"github.com/Josecau2/njfinish-sub001/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, cfg.SessionSecret, cfg.SessionTTL)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, sessionManager)
	authHandler := auth.NewHandler(logger, authService)

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	ratesRepo := rates.NewRepository(dbpool)
	ratesService := rates.NewService(ratesRepo, cfg.DefaultMultiplier)
	ratesHandler := rates.NewHandler(logger, ratesService)

	asynqClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init asynq client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	summaryStore := proposals.NewSummaryStore(redisClient, 24*time.Hour)

	proposalsRepo := proposals.NewRepository(dbpool)
	proposalsService := proposals.NewService(proposalsRepo, catalogService, ratesService, asynqClient, summaryStore, metrics, logger)
	proposalsHandler := proposals.NewHandler(logger, proposalsService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthHandler:      authHandler,
		CatalogHandler:   catalogHandler,
		RatesHandler:     ratesHandler,
		ProposalsHandler: proposalsHandler,
		JobsHandler:      jobsHandler,
		Metrics:          metrics,
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
