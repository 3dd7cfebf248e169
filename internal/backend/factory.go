package backend

import (
	"context"
	"errors"
	"fmt"

	"nota/internal/amqp"
	"nota/internal/kv/memory"
	"nota/internal/log"
	"nota/internal/notify"
	"nota/internal/storage"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend opens the configured store and notification channel. The
// log notifier is always present; AMQP is added when configured and reachable.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		result = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	f.attachNotifier(ctx, result, config)
	return result, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	keys, err := repo.Keys(ctx)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to read SQLite keys: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath, "stored_keys", len(keys))

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) *BackendResult {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}
	store := memory.NewFromDir(dataDir)

	f.logger.Info("Initialized memory backend", "data_directory", dataDir, "seeded_keys", store.Len())

	return &BackendResult{Store: store}
}

func (f *DefaultFactory) attachNotifier(ctx context.Context, result *BackendResult, config Config) {
	logNotifier := notify.NewLogNotifier(f.logger)
	result.Notifier = logNotifier
	if config.AMQPURL == "" {
		return
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue,
		amqp.WithPrefetch(config.AMQPPrefetch), amqp.WithLogger(f.logger))
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without broker", log.FieldError, err)
		return
	}
	f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)

	result.Notifier = notify.Multi{logNotifier, client}
	storeCleanup := result.Cleanup
	result.Cleanup = func() error {
		var errs []error
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close amqp: %w", err))
		}
		if storeCleanup != nil {
			if err := storeCleanup(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
