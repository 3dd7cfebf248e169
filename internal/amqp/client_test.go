package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"nota/internal/notify"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connect: connection refused"), true},
		{"amqp closed", fmt.Errorf("publish: %w", amqp091.ErrClosed), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"other error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "nota", queueName: "notifications"}

	t.Run("initial state is closed", func(t *testing.T) {
		if client.isCircuitOpen() {
			t.Error("circuit breaker should be closed initially")
		}
	})

	t.Run("failures open the circuit", func(t *testing.T) {
		for i := 0; i < maxFailures; i++ {
			client.recordFailure()
		}
		if !client.isCircuitOpen() {
			t.Error("circuit breaker should be open after max failures")
		}
	})

	t.Run("success closes the circuit", func(t *testing.T) {
		client.recordSuccess()
		if client.isCircuitOpen() || atomic.LoadInt64(&client.failureCount) != 0 {
			t.Error("circuit breaker should be closed and reset after success")
		}
	})

	t.Run("half-open after timeout", func(t *testing.T) {
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now().Add(-openTimeout - time.Second)
		if client.isCircuitOpen() {
			t.Error("circuit should allow a trial after the timeout")
		}
		if atomic.LoadInt32(&client.state) != StateHalfOpen {
			t.Error("state should be half-open")
		}

		client.recordFailure()
		if atomic.LoadInt32(&client.state) != StateOpen {
			t.Error("a failure while half-open should reopen the circuit")
		}
	})
}

func TestClient_NotifyShortCircuits(t *testing.T) {
	client := &Client{exchangeName: "nota", queueName: "notifications"}
	n := notify.RequestCreated("PT Maju Jaya", 1, time.Now())

	t.Run("fails when circuit is open", func(t *testing.T) {
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now()

		err := client.Notify(context.Background(), n)
		if !errors.Is(err, ErrCircuitOpen) {
			t.Errorf("expected ErrCircuitOpen, got %v", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		client.recordSuccess()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := client.Notify(ctx, n); err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestNotificationMessage_JSON(t *testing.T) {
	n := notify.ReceiptCreated("Toko Bahagia", 7, time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC))
	msg := NewNotificationMessage(n)
	if msg.ID == "" || msg.PublishedAt.IsZero() {
		t.Fatalf("message should carry an id and timestamp: %+v", msg)
	}

	b, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	parsed, err := NotificationMessageFromJSON(b)
	if err != nil {
		t.Fatalf("NotificationMessageFromJSON() error = %v", err)
	}
	if parsed.ID != msg.ID || parsed.Notification.Title != notify.TitleReceiptCreated || parsed.Notification.RecordID != 7 {
		t.Errorf("unexpected parsed message %+v", parsed)
	}
}

func TestNotificationMessage_Invalid(t *testing.T) {
	for _, body := range []string{`{"id": 5}`, `{"id":"x","notification":{"title":"","severity":"info"}}`} {
		if _, err := NotificationMessageFromJSON([]byte(body)); err == nil {
			t.Errorf("expected error for %s", body)
		} else if strings.TrimSpace(err.Error()) == "" {
			t.Errorf("error should describe the problem")
		}
	}
}
