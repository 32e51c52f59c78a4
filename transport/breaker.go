package transport

import (
	"sync"
	"time"
)

type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half_open"
)

// Breaker is a three state circuit breaker guarding one vendor endpoint.
// Consecutive transport failures trip it open; after the cooldown a
// bounded number of probe requests may pass, and a probe success closes
// the circuit again.
type Breaker struct {
	mu sync.Mutex

	failureThreshold int
	cooldown         time.Duration
	probeBudget      int

	state          BreakerState
	failures       int
	openedAt       time.Time
	probesInFlight int
	now            func() time.Time
}

func NewBreaker(failureThreshold int, cooldown time.Duration, probeBudget int) *Breaker {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	if probeBudget <= 0 {
		probeBudget = 1
	}
	return &Breaker{
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		probeBudget:      probeBudget,
		state:            BreakerClosed,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Allow reports whether a request may be issued right now. It moves an
// open circuit to half open once the cooldown has elapsed and reserves a
// probe slot for the caller.
func (b *Breaker) Allow() bool {
	if b == nil {
		return true
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.state = BreakerHalfOpen
		b.probesInFlight = 1
		return true
	case BreakerHalfOpen:
		if b.probesInFlight >= b.probeBudget {
			return false
		}
		b.probesInFlight++
		return true
	}
	return true
}

func (b *Breaker) RecordSuccess() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.probesInFlight = 0
	b.state = BreakerClosed
}

func (b *Breaker) RecordFailure() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerHalfOpen:
		b.trip()
	case BreakerClosed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.trip()
		}
	}
}

// trip assumes the caller holds the mutex.
func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.failures = b.failureThreshold
	b.probesInFlight = 0
}

func (b *Breaker) State() BreakerState {
	if b == nil {
		return BreakerClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		return BreakerHalfOpen
	}
	return b.state
}

// Reset returns the breaker to closed with no recorded failures. Used
// when credentials rotate and the previous failure streak is stale.
func (b *Breaker) Reset() {
	b.RecordSuccess()
}

// Snapshot exposes the breaker internals for health reporting.
func (b *Breaker) Snapshot() map[string]any {
	if b == nil {
		return map[string]any{"state": string(BreakerClosed)}
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := map[string]any{
		"state":             string(b.state),
		"failures":          b.failures,
		"failure_threshold": b.failureThreshold,
		"cooldown_seconds":  int(b.cooldown / time.Second),
	}
	if b.state == BreakerOpen {
		snapshot["opened_at"] = b.openedAt.Format(time.RFC3339)
		snapshot["retry_at"] = b.openedAt.Add(b.cooldown).Format(time.RFC3339)
	}
	return snapshot
}
