// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"redcrm-backend/internal/config"
	pg "redcrm-backend/internal/infra/db/postgres"
	"redcrm-backend/internal/infra/logging"
	"redcrm-backend/internal/infra/metrics"
	red "redcrm-backend/internal/infra/redis"
	"redcrm-backend/internal/infra/sched"
	tgdispatch "redcrm-backend/internal/infra/telegram"
	"redcrm-backend/internal/infra/web"
	"redcrm-backend/internal/infra/worker"
	"redcrm-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, unredacted phones)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Repositories ----
	clientRepo := pg.NewClientRepo(pool)
	workerRepo := pg.NewWorkerRepo(pool)
	serviceRepo := pg.NewServiceRepo(pool)
	eventRepo := pg.NewEventRepo(pool, clientRepo)
	msgLogRepo := pg.NewMessageLogRepo(pool)

	// ---- Resolution cache (redis when configured, in-process otherwise) ----
	var cache tgdispatch.ResolutionCache
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		cache = red.NewResolutionCache(redisClient, cfg.Telegram.CacheTTL, logger)
		logger.Info().Msg("using redis resolution cache")
	} else {
		cache = tgdispatch.NewMemoryCache(cfg.Telegram.CacheTTL)
	}

	// ---- Telegram dispatch core ----
	sessions := tgdispatch.NewSessionManager(cfg.Telegram, logger)
	defer sessions.Close()
	resolver := tgdispatch.NewResolver(cache, cfg.Telegram.CallTimeout, logger, cfg.Runtime.Dev)
	dispatcher := tgdispatch.NewDispatcher(sessions, resolver, cfg.Telegram.CallTimeout, logger, cfg.Runtime.Dev)

	// ---- Dispatch worker pool ----
	pool2 := worker.NewPool(cfg.Dispatch.Workers, logger)
	pool2.Start(ctx)
	defer pool2.Stop()

	// ---- Use cases ----
	dispatchUC := usecase.NewDispatchUseCase(dispatcher, pool2, msgLogRepo, logger)
	clientUC := usecase.NewClientUseCase(clientRepo)
	workerUC := usecase.NewWorkerUseCase(workerRepo)
	serviceUC := usecase.NewServiceUseCase(serviceRepo)
	eventUC := usecase.NewEventUseCase(eventRepo)
	contractUC := usecase.NewContractUseCase(eventRepo, msgLogRepo, dispatchUC, logger)
	reminderUC := usecase.NewReminderUseCase(eventRepo, dispatchUC, logger)

	// ---- Scheduler ----
	reminderWorker := sched.NewReminderWorker(cfg.Scheduler.ReminderInterval, reminderUC, logger)
	go func() {
		if err := reminderWorker.Run(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("reminder worker stopped")
		}
	}()

	// ---- HTTP ----
	srv := web.NewServer(clientUC, workerUC, serviceUC, eventUC, contractUC, reminderUC, cfg.HTTP.APIKey, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
			cancel()
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
