package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"nota/internal/cache"
	"nota/internal/cli"
	apphttp "nota/internal/http"
	"nota/internal/kv"
	"nota/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	result := cli.InitBackend(context.Background(), logger, cfg)
	defer func() {
		if err := result.Close(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	manager := cache.NewManager(logger.WithComponent(log.ComponentCache).Logger)
	svc := cli.NewServices(result, cfg, manager, logger)
	manager.StartCleanup(cfg.CacheCleanupInterval)
	defer manager.Stop()

	var ready kv.Pinger
	if p, ok := result.Store.(kv.Pinger); ok {
		ready = p
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Records: svc.Records,
		Profile: svc.Profile,
		Auth:    svc.Auth,
		Ready:   ready,
		Logger:  logger,
	})
	srv.ReadTimeout = 15 * time.Second
	srv.WriteTimeout = 15 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting nota server", "port", cfg.Port, "backend", cfg.DataBackend,
		"notifications", cfg.NotificationsEnabled(), log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
