package esi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/industry-planner/internal/adapters/metrics"
	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

const (
	defaultBaseURL     = "https://esi.evetech.net/latest"
	defaultDatasource  = "tranquility"
	defaultTimeout     = 15 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
)

// Options configures the API client
type Options struct {
	BaseURL        string
	Datasource     string
	UserAgent      string
	Timeout        time.Duration
	RequestsPerSec int
	Burst          int
	MaxRetries     int
	BackoffBase    time.Duration
	MaxFailures    int
	BreakerTimeout time.Duration
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		BaseURL:        defaultBaseURL,
		Datasource:     defaultDatasource,
		UserAgent:      "industry-planner",
		Timeout:        defaultTimeout,
		RequestsPerSec: 10,
		Burst:          20,
		MaxRetries:     defaultMaxRetries,
		BackoffBase:    defaultBackoffBase,
		MaxFailures:    5,
		BreakerTimeout: time.Minute,
	}
}

// Client performs rate limited, retried and circuit-broken GET requests
// against the ESI-style public API
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	baseURL     string
	datasource  string
	userAgent   string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewClient creates a client. If clock is nil, uses the wall clock
func NewClient(opts Options, clock shared.Clock) *Client {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	def := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = def.BaseURL
	}
	if opts.Datasource == "" {
		opts.Datasource = def.Datasource
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = def.RequestsPerSec
	}
	if opts.Burst <= 0 {
		opts.Burst = def.Burst
	}

	return &Client{
		httpClient:  &http.Client{Timeout: opts.Timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), opts.Burst),
		breaker:     NewCircuitBreaker(opts.MaxFailures, opts.BreakerTimeout, clock),
		baseURL:     opts.BaseURL,
		datasource:  opts.Datasource,
		userAgent:   opts.UserAgent,
		maxRetries:  opts.MaxRetries,
		backoffBase: opts.BackoffBase,
		clock:       clock,
	}
}

// Breaker exposes the client's circuit breaker
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

// APIError is a non-retryable error response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// retryableError is a failure worth another attempt
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}

// get fetches path into result. endpoint is the metrics label for the route.
func (c *Client) get(ctx context.Context, path, endpoint, token string, query url.Values, result interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("datasource", c.datasource)
	target := c.baseURL + path + "?" + query.Encode()

	return c.breaker.Call(func() error {
		return c.do(ctx, target, endpoint, token, result)
	})
}

func (c *Client) do(ctx context.Context, target, endpoint, token string, result interface{}) error {
	logger := common.LoggerFromContext(ctx)
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		waitStart := time.Now()
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
		if waited := time.Since(waitStart); waited > time.Millisecond {
			metrics.RecordRateLimitWait(http.MethodGet, endpoint, waited.Seconds())
		}

		status, body, err := c.send(ctx, target, endpoint, token)
		if err == nil {
			if result != nil {
				if err := json.Unmarshal(body, result); err != nil {
					return fmt.Errorf("failed to unmarshal response: %w", err)
				}
			}
			return nil
		}

		var retry *retryableError
		if !errors.As(err, &retry) {
			return err
		}
		lastErr = err
		if attempt >= c.maxRetries {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		}

		delay := addJitter(c.backoffBase * time.Duration(1<<attempt))
		if retry.retryAfter > 0 {
			delay = retry.retryAfter
		}
		reason := "network"
		if status != 0 {
			reason = strconv.Itoa(status)
		}
		metrics.RecordAPIRetry(http.MethodGet, endpoint, reason)
		logger.Debug("retrying API request", "endpoint", endpoint, "attempt", attempt+1, "delay", delay, "reason", retry.message)
		c.clock.Sleep(delay)
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// send performs one attempt. Network failures, 420/429 and 5xx are retryable.
func (c *Client) send(ctx context.Context, target, endpoint, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordAPIRequest(http.MethodGet, endpoint, 0, time.Since(start).Seconds())
		return 0, nil, &retryableError{message: fmt.Sprintf("network error: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	metrics.RecordAPIRequest(http.MethodGet, endpoint, resp.StatusCode, time.Since(start).Seconds())
	if err != nil {
		return resp.StatusCode, nil, &retryableError{message: fmt.Sprintf("failed to read response: %v", err)}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 420:
		var retryAfter time.Duration
		if s := resp.Header.Get("Retry-After"); s != "" {
			if seconds, err := strconv.Atoi(s); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return resp.StatusCode, nil, &retryableError{
			message:    fmt.Sprintf("rate limited (%d)", resp.StatusCode),
			retryAfter: retryAfter,
		}
	case resp.StatusCode >= 500:
		return resp.StatusCode, nil, &retryableError{message: fmt.Sprintf("server error (%d)", resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return resp.StatusCode, nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp.StatusCode, body, nil
}

// addJitter spreads the delay by up to ±25%
func addJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int63n(int64(d)/2+1)) - d/4
	return d + jitter
}
