package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"golang.org/x/time/rate"

	"github.com/hoteldefend/pms-connect/core"
)

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 250 * time.Millisecond
	maxRetryBackoff     = 2 * time.Second
	maxResponseBytes    = 8 << 20
)

// Request describes one outbound vendor call. Body is JSON encoded when
// non nil unless RawBody is set.
type Request struct {
	Method  string
	URL     string
	Query   url.Values
	Headers map[string]string
	Body    any
	RawBody []byte
	Timeout time.Duration
}

// Response carries the vendor reply back to the adapter. Non 2xx
// statuses below 500 are returned as responses, not errors, so the
// adapter can interpret vendor specific semantics.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

func (r *Response) DecodeJSON(target any) error {
	if r == nil || len(r.Body) == 0 {
		return fmt.Errorf("transport: empty response body")
	}
	return json.Unmarshal(r.Body, target)
}

func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// HeaderSource supplies per-request auth and identity headers. It runs
// on every attempt so rotated tokens are picked up mid retry loop.
type HeaderSource func(ctx context.Context) (map[string]string, error)

type Options struct {
	VendorID   string
	BaseURL    string
	Config     core.TransportConfig
	Headers    HeaderSource
	HTTPClient *http.Client
	Logger     glog.Logger

	// MaxAttempts bounds the retry loop, first try included.
	MaxAttempts int

	// Sleep is swapped in tests to skip real backoff waits.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Pipeline is the shared resilience layer every vendor adapter sends its
// HTTP traffic through: token bucket, circuit breaker, header injection,
// per call timeout and transient retry with Retry-After support.
type Pipeline struct {
	vendorID    string
	baseURL     string
	client      *http.Client
	limiter     *rate.Limiter
	breaker     *Breaker
	headers     HeaderSource
	logger      glog.Logger
	timeout     time.Duration
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
}

func New(opts Options) *Pipeline {
	cfg := withTransportDefaults(opts.Config)

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	return &Pipeline{
		vendorID: strings.TrimSpace(opts.VendorID),
		baseURL:  strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		client:   client,
		limiter: rate.NewLimiter(
			rate.Limit(cfg.RateLimitPerSecond),
			cfg.RateLimitCapacity,
		),
		breaker: NewBreaker(
			cfg.BreakerFailureThreshold,
			time.Duration(cfg.BreakerCooldownSeconds)*time.Second,
			cfg.BreakerHalfOpenProbes,
		),
		headers:     opts.Headers,
		logger:      glog.Ensure(opts.Logger),
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		maxAttempts: maxAttempts,
		sleep:       sleep,
	}
}

// withTransportDefaults fills unset fields one at a time, so a config
// that only sets some knobs keeps working limiter and breaker defaults
// for the rest.
func withTransportDefaults(cfg core.TransportConfig) core.TransportConfig {
	defaults := core.DefaultConfig().Transport
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if cfg.AuthTimeoutSeconds <= 0 {
		cfg.AuthTimeoutSeconds = defaults.AuthTimeoutSeconds
	}
	if cfg.RateLimitCapacity <= 0 {
		cfg.RateLimitCapacity = defaults.RateLimitCapacity
	}
	if cfg.RateLimitPerSecond <= 0 {
		cfg.RateLimitPerSecond = defaults.RateLimitPerSecond
	}
	if cfg.BreakerFailureThreshold <= 0 {
		cfg.BreakerFailureThreshold = defaults.BreakerFailureThreshold
	}
	if cfg.BreakerCooldownSeconds <= 0 {
		cfg.BreakerCooldownSeconds = defaults.BreakerCooldownSeconds
	}
	if cfg.BreakerHalfOpenProbes <= 0 {
		cfg.BreakerHalfOpenProbes = defaults.BreakerHalfOpenProbes
	}
	return cfg
}

// Breaker exposes the circuit breaker so adapters can reset it on
// credential rotation and report its state from health checks.
func (p *Pipeline) Breaker() *Breaker {
	if p == nil {
		return nil
	}
	return p.breaker
}

func (p *Pipeline) BreakerSnapshot() map[string]any {
	if p == nil {
		return map[string]any{"state": string(BreakerClosed)}
	}
	return p.breaker.Snapshot()
}

// Do sends the request through the resilience chain. Network failures,
// 429 and 5xx replies count against the breaker and are retried with
// backoff; everything else is handed to the caller as a Response.
func (p *Pipeline) Do(ctx context.Context, req Request) (*Response, error) {
	if p == nil {
		return nil, transportError("transport: pipeline is nil",
			goerrors.CategoryInternal, http.StatusInternalServerError, nil)
	}
	if strings.TrimSpace(req.URL) == "" {
		return nil, transportError("transport: request url is required",
			goerrors.CategoryBadInput, http.StatusBadRequest, p.metadata(req))
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, transportWrapError(err, goerrors.CategoryRateLimit,
			"transport: rate limiter interrupted",
			http.StatusTooManyRequests, p.metadata(req))
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if !p.breaker.Allow() {
			return nil, goerrors.New(
				fmt.Sprintf("transport: circuit open for %s", p.vendorID),
				goerrors.CategoryRateLimit).
				WithCode(http.StatusServiceUnavailable).
				WithTextCode(core.PMSErrorCircuitOpen).
				WithMetadata(p.metadata(req))
		}

		resp, retryAfter, retryable, err := p.attempt(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable || attempt == p.maxAttempts || ctx.Err() != nil {
			break
		}
		wait := backoffDelay(attempt)
		if retryAfter > 0 {
			wait = retryAfter
		}
		p.logger.Info("transport retry scheduled",
			"vendor_id", p.vendorID,
			"url", req.URL,
			"attempt", attempt,
			"wait", wait.String(),
		)
		if err := p.sleep(ctx, wait); err != nil {
			return nil, transportWrapError(err, goerrors.CategoryExternal,
				"transport: retry wait interrupted",
				http.StatusBadGateway, p.metadata(req))
		}
	}
	return nil, lastErr
}

// attempt issues a single HTTP call. The returned duration is the
// vendor supplied Retry-After hint, zero when absent. Only network
// faults, 429 and 5xx replies report retryable.
func (p *Pipeline) attempt(ctx context.Context, req Request) (*Response, time.Duration, bool, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = p.timeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := p.buildRequest(callCtx, req)
	if err != nil {
		return nil, 0, false, err
	}

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		p.breaker.RecordFailure()
		return nil, 0, true, transportWrapError(err, goerrors.CategoryExternal,
			fmt.Sprintf("transport: %s request failed", p.vendorID),
			http.StatusBadGateway, p.metadata(req))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		p.breaker.RecordFailure()
		return nil, 0, true, transportWrapError(err, goerrors.CategoryExternal,
			"transport: reading response body failed",
			http.StatusBadGateway, p.metadata(req))
	}

	switch {
	case httpResp.StatusCode == http.StatusTooManyRequests:
		p.breaker.RecordFailure()
		return nil, retryAfterHint(httpResp.Header), true, transportError(
			fmt.Sprintf("transport: %s throttled the client", p.vendorID),
			goerrors.CategoryRateLimit, http.StatusTooManyRequests,
			p.metadata(req))
	case httpResp.StatusCode >= http.StatusInternalServerError:
		p.breaker.RecordFailure()
		return nil, retryAfterHint(httpResp.Header), true, transportError(
			fmt.Sprintf("transport: %s replied %d", p.vendorID, httpResp.StatusCode),
			goerrors.CategoryExternal, http.StatusBadGateway,
			p.metadata(req))
	}

	p.breaker.RecordSuccess()
	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, 0, false, nil
}

func (p *Pipeline) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	target := req.URL
	if !strings.Contains(target, "://") && p.baseURL != "" {
		target = p.baseURL + "/" + strings.TrimLeft(target, "/")
	}
	if len(req.Query) > 0 {
		separator := "?"
		if strings.Contains(target, "?") {
			separator = "&"
		}
		target += separator + req.Query.Encode()
	}

	var bodyReader io.Reader
	contentType := ""
	switch {
	case len(req.RawBody) > 0:
		bodyReader = bytes.NewReader(req.RawBody)
	case req.Body != nil:
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, transportWrapError(err, goerrors.CategoryBadInput,
				"transport: encoding request body failed",
				http.StatusBadRequest, p.metadata(req))
		}
		bodyReader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, transportWrapError(err, goerrors.CategoryBadInput,
			"transport: building request failed",
			http.StatusBadRequest, p.metadata(req))
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")

	if p.headers != nil {
		injected, err := p.headers(ctx)
		if err != nil {
			return nil, transportWrapError(err, goerrors.CategoryAuth,
				fmt.Sprintf("transport: resolving %s auth headers failed", p.vendorID),
				http.StatusUnauthorized, p.metadata(req))
		}
		for key, value := range injected {
			if strings.TrimSpace(key) == "" {
				continue
			}
			httpReq.Header.Set(key, value)
		}
	}
	for key, value := range req.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(key, value)
	}
	return httpReq, nil
}

func (p *Pipeline) metadata(req Request) map[string]any {
	meta := map[string]any{"url": req.URL}
	if p != nil && p.vendorID != "" {
		meta["vendor_id"] = p.vendorID
	}
	return meta
}

func backoffDelay(attempt int) time.Duration {
	delay := defaultRetryBackoff << (attempt - 1)
	if delay > maxRetryBackoff {
		return maxRetryBackoff
	}
	return delay
}

// retryAfterHint parses both the delta seconds and the HTTP date forms
// of the Retry-After header.
func retryAfterHint(headers http.Header) time.Duration {
	raw := strings.TrimSpace(headers.Get("Retry-After"))
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds <= 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		wait := time.Until(at)
		if wait > 0 {
			return wait
		}
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
