// Package cli holds the startup and shutdown steps shared by cmd/nota,
// cmd/notactl and cmd/nota-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nota/internal/backend"
	"nota/internal/cache"
	"nota/internal/config"
	"nota/internal/core"
	"nota/internal/log"
	"nota/internal/notify"
	"nota/internal/records"
	"nota/internal/services"
)

// SetupLogger builds a text logger at the given level and installs it as the
// slog default. Unknown levels fall back to info.
func SetupLogger(level, component string) *log.Logger {
	cfg := log.DefaultConfig()
	if lvl, err := log.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	if component != "" {
		cfg.Component = component
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitBackend opens the configured store and notifier.
// Exits the process on failure.
func InitBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.BackendResult {
	bcfg, err := backend.FromAppConfig(cfg)
	if err == nil {
		err = bcfg.Validate()
	}
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, "backend", bcfg.Type)
		os.Exit(1)
	}
	return result
}

// Services bundles the service layer over one store.
type Services struct {
	Store   *records.Store
	Records *services.RecordService
	Profile *services.ProfileService
	Auth    *services.AuthService
}

// NewServices wires the services. A nil manager disables the dashboard cache.
func NewServices(result *backend.BackendResult, cfg *config.Config, manager *cache.Manager, logger *log.Logger) *Services {
	store := records.NewStore(result.Store)
	notifier := result.Notifier
	if notifier == nil {
		notifier = notify.Discard
	}

	opts := []services.Option{
		services.WithNotifier(notifier),
		services.WithLogger(logger),
	}
	if manager != nil {
		summaries := cache.NewLRUCache[core.Summary](cfg.SummaryCacheSize, cfg.SummaryCacheTTL)
		manager.Register(summaries)
		opts = append(opts, services.WithSummaryCache(summaries))
	}

	return &Services{
		Store:   store,
		Records: services.NewRecordService(store, opts...),
		Profile: services.NewProfileService(store, notifier, logger),
		Auth:    services.NewAuthService(store, notifier, logger),
	}
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM, and a
// channel closed once cleanup has run. cleanup gets a context bounded by
// timeout.
func GracefulShutdown(logger *log.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup finished.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
