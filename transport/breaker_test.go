package transport

import (
	"testing"
	"time"
)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	breaker := NewBreaker(3, 30*time.Second, 1)
	breaker.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		breaker.RecordFailure()
	}
	if got := breaker.State(); got != BreakerClosed {
		t.Fatalf("two failures must not trip a threshold of three, got %s", got)
	}

	breaker.RecordFailure()
	if got := breaker.State(); got != BreakerOpen {
		t.Fatalf("expected open after third failure, got %s", got)
	}
	if breaker.Allow() {
		t.Fatalf("open breaker must fail fast inside the cooldown")
	}
}

func TestBreaker_HalfOpenProbeLifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	breaker := NewBreaker(1, 30*time.Second, 1)
	breaker.now = func() time.Time { return now }

	breaker.RecordFailure()
	if breaker.Allow() {
		t.Fatalf("breaker should be open")
	}

	now = now.Add(31 * time.Second)
	if !breaker.Allow() {
		t.Fatalf("cooldown elapsed, one probe must pass")
	}
	if breaker.Allow() {
		t.Fatalf("probe budget of one must reject a second concurrent probe")
	}

	breaker.RecordSuccess()
	if got := breaker.State(); got != BreakerClosed {
		t.Fatalf("successful probe must close the circuit, got %s", got)
	}
	if !breaker.Allow() {
		t.Fatalf("closed breaker must allow traffic")
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	breaker := NewBreaker(1, 30*time.Second, 1)
	breaker.now = func() time.Time { return now }

	breaker.RecordFailure()
	now = now.Add(time.Minute)
	if !breaker.Allow() {
		t.Fatalf("expected half open probe")
	}

	breaker.RecordFailure()
	if breaker.Allow() {
		t.Fatalf("failed probe must reopen the circuit")
	}

	snapshot := breaker.Snapshot()
	if snapshot["state"] != string(BreakerOpen) {
		t.Fatalf("snapshot should report open, got %v", snapshot["state"])
	}
	if _, ok := snapshot["retry_at"]; !ok {
		t.Fatalf("open snapshot should expose retry_at")
	}
}

func TestBreaker_ResetClearsFailureStreak(t *testing.T) {
	breaker := NewBreaker(2, 30*time.Second, 1)
	breaker.RecordFailure()
	breaker.RecordFailure()
	if breaker.Allow() {
		t.Fatalf("breaker should be open before reset")
	}

	breaker.Reset()
	if got := breaker.State(); got != BreakerClosed {
		t.Fatalf("reset must close the circuit, got %s", got)
	}
}

func TestBreaker_NilReceiverIsPermissive(t *testing.T) {
	var breaker *Breaker
	if !breaker.Allow() {
		t.Fatalf("nil breaker must not block traffic")
	}
	breaker.RecordFailure()
	breaker.RecordSuccess()
	if got := breaker.State(); got != BreakerClosed {
		t.Fatalf("nil breaker reports closed, got %s", got)
	}
}
