package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/hoteldefend/pms-connect/core"
)

func testTransportConfig() core.TransportConfig {
	return core.TransportConfig{
		TimeoutSeconds:          5,
		AuthTimeoutSeconds:      5,
		RateLimitCapacity:       100,
		RateLimitPerSecond:      100,
		BreakerFailureThreshold: 5,
		BreakerCooldownSeconds:  30,
		BreakerHalfOpenProbes:   1,
	}
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestPipeline_InjectsHeadersAndDecodesJSON(t *testing.T) {
	var seenAuth, seenProperty string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		seenProperty = r.Header.Get("X-Property-Id")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"confirmation":"ABC123"}`))
	}))
	defer server.Close()

	pipeline := New(Options{
		VendorID: "opera",
		BaseURL:  server.URL,
		Config:   testTransportConfig(),
		Headers: func(context.Context) (map[string]string, error) {
			return map[string]string{"Authorization": "Bearer tok_1"}, nil
		},
		Sleep: noSleep,
	})

	resp, err := pipeline.Do(context.Background(), Request{
		Method:  http.MethodGet,
		URL:     "/reservations/ABC123",
		Headers: map[string]string{"X-Property-Id": "PROP1"},
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if !resp.IsSuccess() {
		t.Fatalf("expected success, got %d", resp.StatusCode)
	}
	if seenAuth != "Bearer tok_1" {
		t.Fatalf("auth header not injected, got %q", seenAuth)
	}
	if seenProperty != "PROP1" {
		t.Fatalf("request header lost, got %q", seenProperty)
	}

	var payload struct {
		Confirmation string `json:"confirmation"`
	}
	if err := resp.DecodeJSON(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Confirmation != "ABC123" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestPipeline_RetriesTransientServerFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	pipeline := New(Options{
		VendorID: "cloudbeds",
		BaseURL:  server.URL,
		Config:   testTransportConfig(),
		Sleep:    noSleep,
	})

	resp, err := pipeline.Do(context.Background(), Request{URL: "/reservations"})
	if err != nil {
		t.Fatalf("expected third attempt to succeed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestPipeline_HonorsRetryAfterHint(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "2")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var waited time.Duration
	pipeline := New(Options{
		VendorID: "rmscloud",
		BaseURL:  server.URL,
		Config:   testTransportConfig(),
		Sleep: func(_ context.Context, d time.Duration) error {
			waited = d
			return nil
		},
	})

	if _, err := pipeline.Do(context.Background(), Request{URL: "/agents"}); err != nil {
		t.Fatalf("expected retry to recover: %v", err)
	}
	if waited != 2*time.Second {
		t.Fatalf("expected Retry-After wait of 2s, got %s", waited)
	}
}

func TestPipeline_BreakerFailsFastWithoutNetworkCalls(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testTransportConfig()
	cfg.BreakerFailureThreshold = 2
	pipeline := New(Options{
		VendorID:    "protel",
		BaseURL:     server.URL,
		Config:      cfg,
		MaxAttempts: 1,
		Sleep:       noSleep,
	})

	for i := 0; i < 2; i++ {
		if _, err := pipeline.Do(context.Background(), Request{URL: "/res"}); err == nil {
			t.Fatalf("expected failure on attempt %d", i+1)
		}
	}
	before := calls.Load()

	_, err := pipeline.Do(context.Background(), Request{URL: "/res"})
	if err == nil {
		t.Fatalf("expected circuit open error")
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.TextCode != core.PMSErrorCircuitOpen {
		t.Fatalf("expected %s envelope, got %v", core.PMSErrorCircuitOpen, err)
	}
	if calls.Load() != before {
		t.Fatalf("open breaker must not issue network requests")
	}
	if got := pipeline.BreakerSnapshot()["state"]; got != string(BreakerOpen) {
		t.Fatalf("expected open snapshot, got %v", got)
	}
}

func TestPipeline_BreakerRecoversThroughHalfOpenProbe(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := testTransportConfig()
	cfg.BreakerFailureThreshold = 1
	pipeline := New(Options{
		VendorID:    "apaleo",
		BaseURL:     server.URL,
		Config:      cfg,
		MaxAttempts: 1,
		Sleep:       noSleep,
	})

	if _, err := pipeline.Do(context.Background(), Request{URL: "/bookings"}); err == nil {
		t.Fatalf("expected tripping failure")
	}

	// Simulate the cooldown elapsing without waiting for it.
	past := time.Now().UTC().Add(-time.Minute)
	pipeline.Breaker().mu.Lock()
	pipeline.Breaker().openedAt = past
	pipeline.Breaker().mu.Unlock()

	fail.Store(false)
	resp, err := pipeline.Do(context.Background(), Request{URL: "/bookings"})
	if err != nil {
		t.Fatalf("half open probe should succeed: %v", err)
	}
	if !resp.IsSuccess() {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if got := pipeline.Breaker().State(); got != BreakerClosed {
		t.Fatalf("probe success must close the breaker, got %s", got)
	}
}

func TestPipeline_NonRetryableStatusIsReturnedToCaller(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such reservation"}`))
	}))
	defer server.Close()

	pipeline := New(Options{
		VendorID: "frontdesk",
		BaseURL:  server.URL,
		Config:   testTransportConfig(),
		Sleep:    noSleep,
	})

	resp, err := pipeline.Do(context.Background(), Request{URL: "/reservations/missing"})
	if err != nil {
		t.Fatalf("4xx must come back as a response: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if pipeline.Breaker().State() != BreakerClosed {
		t.Fatalf("4xx must not count against the breaker")
	}
}

func TestPipeline_PartialConfigKeepsLimiterAndBreakerDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	// Only the timeout is tuned. The limiter and breaker must still
	// come up with working defaults instead of a zero-burst limiter
	// that blocks every request.
	pipeline := New(Options{
		VendorID: "opera",
		BaseURL:  server.URL,
		Config:   core.TransportConfig{TimeoutSeconds: 3},
		Sleep:    noSleep,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := pipeline.Do(ctx, Request{URL: "/reservations"})
	if err != nil {
		t.Fatalf("partial config must still serve requests: %v", err)
	}
	if !resp.IsSuccess() {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	defaults := core.DefaultConfig().Transport
	snapshot := pipeline.BreakerSnapshot()
	if got := snapshot["failure_threshold"]; got != defaults.BreakerFailureThreshold {
		t.Fatalf("expected default breaker threshold %d, got %v",
			defaults.BreakerFailureThreshold, got)
	}
	if got := snapshot["cooldown_seconds"]; got != defaults.BreakerCooldownSeconds {
		t.Fatalf("expected default cooldown %ds, got %v",
			defaults.BreakerCooldownSeconds, got)
	}
}

func TestPipeline_HeaderSourceFailureIsAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("request must not reach the vendor when headers fail")
	}))
	defer server.Close()

	pipeline := New(Options{
		VendorID: "opera",
		BaseURL:  server.URL,
		Config:   testTransportConfig(),
		Headers: func(context.Context) (map[string]string, error) {
			return nil, context.DeadlineExceeded
		},
		MaxAttempts: 1,
		Sleep:       noSleep,
	})

	_, err := pipeline.Do(context.Background(), Request{URL: "/reservations/1"})
	if err == nil {
		t.Fatalf("expected header resolution failure")
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Category != goerrors.CategoryAuth {
		t.Fatalf("expected auth category, got %v", err)
	}
	if richErr.TextCode != core.PMSErrorAuthFailed {
		t.Fatalf("expected %s envelope, got %q", core.PMSErrorAuthFailed, richErr.TextCode)
	}
	if richErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 envelope, got %d", richErr.Code)
	}
}
