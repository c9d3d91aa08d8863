// Package httpds implements a small retrying HTTP client shared by the two
// remote collaborators of the seeder: the dataset download endpoint and the
// PostgREST API of the target database.
//
// Design goals:
//
//   - Keep a tiny, explicit API (Get, Post, Do).
//   - Handle transient failures (5xx, 429, transport errors) with exponential
//     backoff.
//   - Carry a fixed set of base headers on every request, so callers like the
//     PostgREST store can bake in their auth headers once.
//   - Respect context cancellation during requests and backoff waits.
//   - Be easy to test by injecting a custom RoundTripper and sleep function.
package httpds

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

// Config configures the HTTP client.
//
// Zero values are given sensible defaults:
//   - Timeout:        30s
//   - MaxRetries:     3
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
type Config struct {
	// Timeout is the per-request timeout applied at the http.Client level.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial request.
	// MaxRetries=0 means "no retries" (only the initial attempt).
	MaxRetries int

	// InitialBackoff is the base backoff duration for the first retry. Each
	// subsequent retry doubles the previous backoff up to MaxBackoff.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff duration.
	MaxBackoff time.Duration

	// BaseHeaders are added to every request. Per-request headers take
	// precedence over base headers with the same name.
	BaseHeaders http.Header

	// Transport is an optional custom RoundTripper, injectable for tests.
	Transport http.RoundTripper
}

// Client wraps an http.Client with retry and backoff behavior.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	baseHeaders    http.Header

	// sleep is injectable to make tests fast and deterministic.
	sleep func(time.Duration)
}

// NewClient constructs a Client from Config, applying defaults for zero values.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}

	hdr := http.Header{}
	for k, vs := range cfg.BaseHeaders {
		for _, v := range vs {
			hdr.Add(k, v)
		}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		baseHeaders:    hdr,
		sleep:          time.Sleep,
	}
}

// Do sends an HTTP request with the given method, URL, and optional body,
// applying retry and backoff on transient errors. The body is supplied as a
// byte slice so that it can be safely re-sent on retry.
//
// The returned *http.Response has a non-nil Body which the caller must close.
// On error, either no response was obtained or every attempt hit a retryable
// failure. Non-retryable statuses (anything outside 5xx/429) are returned to
// the caller as-is; deciding whether e.g. a 409 is fatal is the caller's job.
func (c *Client) Do(ctx context.Context, method, url string, body []byte, headers http.Header) (*http.Response, error) {
	if method == "" {
		return nil, fmt.Errorf("httpds: method must not be empty")
	}
	if url == "" {
		return nil, fmt.Errorf("httpds: url must not be empty")
	}

	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("httpds: build request: %w", err)
		}

		// Base headers first, then per-request headers (which override).
		for k, vs := range c.baseHeaders {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		for k, vs := range headers {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network or transport-level error. Treat as retryable.
			lastErr = err
		} else {
			if !isRetryableStatus(resp.StatusCode) {
				return resp, nil
			}
			// Retryable status: close body and fall through to backoff.
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("httpds: retryable status %d from %s %s", resp.StatusCode, method, url)
		}

		if attempt+1 >= attempts {
			return nil, lastErr
		}

		if err := c.wait(ctx, backoffDuration(c.initialBackoff, attempt, c.maxBackoff)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// Get is a convenience wrapper over Do for HTTP GET. The caller must close
// the response body.
func (c *Client) Get(ctx context.Context, url string, headers http.Header) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, headers)
}

// Post is a convenience wrapper over Do for HTTP POST. The caller must close
// the response body.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers http.Header) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, url, body, headers)
}

// wait sleeps for d via the injectable sleep function, honoring cancellation
// on both sides of the sleep.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		c.sleep(d)
	}
	return ctx.Err()
}

// isRetryableStatus reports whether the given HTTP status code should trigger
// a retry. Intentionally conservative: 5xx and 429 are treated as transient;
// everything else is considered final.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// backoffDuration returns the exponential backoff duration for the given
// attempt number (0-based retry index), clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	d := initial << attempt
	if d > max || d <= 0 {
		return max
	}
	return d
}
