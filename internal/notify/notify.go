// Package notify delivers short user-facing messages about completed actions.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nota/internal/log"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeveritySuccess, SeverityError, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Level maps the severity to a log level.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Titles and descriptions shown to the user.
const (
	TitleRequestCreated = "Nota Permintaan Dibuat"
	TitleReceiptCreated = "Nota Penerimaan Dibuat"
	TitleRequestPaid    = "Nota Permintaan Dibayar"
	TitleSignedUp       = "Akun berhasil dibuat"
	TitleLoggedIn       = "Login berhasil"
	TitleLoggedOut      = "Berhasil keluar"
	TitleProfileSaved   = "Profil disimpan"
)

// RequestCreated is sent after a payment request is stored.
func RequestCreated(client string, id int64, at time.Time) Notification {
	return Notification{
		Title:       TitleRequestCreated,
		Description: fmt.Sprintf("Permintaan pembayaran untuk %s telah dibuat", client),
		Severity:    SeveritySuccess,
		RecordID:    id,
		Timestamp:   at,
	}
}

// ReceiptCreated is sent after a receipt is stored.
func ReceiptCreated(client string, id int64, at time.Time) Notification {
	return Notification{
		Title:       TitleReceiptCreated,
		Description: fmt.Sprintf("Penerimaan pembayaran dari %s telah dicatat", client),
		Severity:    SeveritySuccess,
		RecordID:    id,
		Timestamp:   at,
	}
}

// RequestPaid is sent after a payment request is marked paid.
func RequestPaid(client string, id int64, at time.Time) Notification {
	return Notification{
		Title:       TitleRequestPaid,
		Description: fmt.Sprintf("Pembayaran dari %s telah diterima", client),
		Severity:    SeveritySuccess,
		RecordID:    id,
		Timestamp:   at,
	}
}

type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	RecordID    int64     `json:"recordId,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

var ErrInvalidNotification = errors.New("invalid notification")

func (n Notification) Validate() error {
	if n.Title == "" {
		return fmt.Errorf("%w: empty title", ErrInvalidNotification)
	}
	if !n.Severity.IsValid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidNotification, n.Severity)
	}
	return nil
}

func (n Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// FromJSON decodes and validates a notification.
func FromJSON(data []byte) (Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return Notification{}, err
	}
	if err := n.Validate(); err != nil {
		return Notification{}, err
	}
	return n, nil
}

// Notifier delivers notifications. Callers treat failures as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.WithComponent(log.ComponentNotify)}
}

func (l *LogNotifier) Notify(ctx context.Context, n Notification) error {
	l.logger.Log(ctx, n.Severity.Level(), n.Title,
		log.FieldDescription, n.Description,
		log.FieldSeverity, string(n.Severity),
		log.FieldRecordID, n.RecordID)
	return nil
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(context.Context, Notification) error { return nil })
