package http

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
	rl := newRateLimiter(3)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should pass", i)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatalf("fourth request in the window should be rejected")
	}
	if !rl.allow("10.0.0.2") {
		t.Fatalf("other clients are counted separately")
	}
	if rl.rejected() != 1 {
		t.Fatalf("rejected() = %d, want 1", rl.rejected())
	}

	now = now.Add(time.Minute)
	if !rl.allow("10.0.0.1") {
		t.Fatalf("a new window should reset the count")
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	now := time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
	rl := newRateLimiter(0)
	rl.now = func() time.Time { return now }

	rl.allow("a")
	now = now.Add(5 * time.Minute)
	rl.allow("b")
	now = now.Add(6 * time.Minute)

	if removed := rl.cleanupStaleEntries(); removed != 1 {
		t.Fatalf("removed %d entries, want 1", removed)
	}
	if _, ok := rl.clients["b"]; !ok {
		t.Fatalf("recent client was removed")
	}
	rl.stop()
	rl.stop()
}
