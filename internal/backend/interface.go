package backend

import (
	"context"

	"nota/internal/kv"
	"nota/internal/notify"
)

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult is what the application needs to run: a record store and
// somewhere to send notifications.
type BackendResult struct {
	Store    kv.Store
	Notifier notify.Notifier
	Cleanup  CleanupFunc
}

// Close runs Cleanup if set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// SQLite
	SQLiteDBPath string

	// Memory: directory of <key>.json seed files.
	DataDirectory string

	// Optional AMQP notifications
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	AMQPPrefetch int
}

type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
