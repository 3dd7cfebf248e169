package worker

import (
	"context"
	"fmt"
	"sync"

	"nota/internal/log"
	"nota/internal/notify"
)

// Consumer feeds notifications to a handler until ctx ends.
type Consumer interface {
	Run(ctx context.Context, handler func(context.Context, notify.Notification) error) error
}

// Stats counts handled notifications.
type Stats struct {
	Processed  int64
	Failed     int64
	BySeverity map[notify.Severity]int64
}

// NotificationWorker forwards consumed notifications to a sink and counts them.
type NotificationWorker struct {
	sink   notify.Notifier
	logger *log.Logger

	mu    sync.Mutex
	stats Stats
}

func NewNotificationWorker(sink notify.Notifier, logger *log.Logger) *NotificationWorker {
	if sink == nil {
		sink = notify.Discard
	}
	return &NotificationWorker{
		sink:   sink,
		logger: logger.WithComponent(log.ComponentWorker),
		stats:  Stats{BySeverity: map[notify.Severity]int64{}},
	}
}

// Handle delivers one notification. A sink error is returned so the
// message is requeued.
func (w *NotificationWorker) Handle(ctx context.Context, n notify.Notification) error {
	if err := w.sink.Notify(ctx, n); err != nil {
		w.mu.Lock()
		w.stats.Failed++
		w.mu.Unlock()
		return fmt.Errorf("deliver notification %q: %w", n.Title, err)
	}

	w.mu.Lock()
	w.stats.Processed++
	w.stats.BySeverity[n.Severity]++
	w.mu.Unlock()

	w.logger.DebugContext(ctx, "Notification handled",
		log.FieldTitle, n.Title,
		log.FieldSeverity, string(n.Severity),
		log.FieldRecordID, n.RecordID)
	return nil
}

// Run consumes until ctx ends and logs the final counts.
func (w *NotificationWorker) Run(ctx context.Context, c Consumer) error {
	w.logger.InfoContext(ctx, "Notification worker started")
	err := c.Run(ctx, w.Handle)

	s := w.Stats()
	w.logger.Info("Notification worker stopped",
		"processed", s.Processed,
		"failed", s.Failed)

	if err == context.Canceled {
		return nil
	}
	return err
}

// Stats returns a copy of the counters.
func (w *NotificationWorker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := Stats{
		Processed:  w.stats.Processed,
		Failed:     w.stats.Failed,
		BySeverity: make(map[notify.Severity]int64, len(w.stats.BySeverity)),
	}
	for k, v := range w.stats.BySeverity {
		out.BySeverity[k] = v
	}
	return out
}
