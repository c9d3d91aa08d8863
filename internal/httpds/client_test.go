package httpds

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"
)

// scriptedTransport returns canned responses (or errors) in order.
type scriptedTransport struct {
	steps []func(*http.Request) (*http.Response, error)
	calls int
	seen  []*http.Request
}

func (s *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.seen = append(s.seen, req)
	i := s.calls
	s.calls++
	if i >= len(s.steps) {
		i = len(s.steps) - 1
	}
	return s.steps[i](req)
}

func respond(status int, body string) func(*http.Request) (*http.Response, error) {
	return func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     http.Header{},
		}, nil
	}
}

func newTestClient(tr http.RoundTripper, retries int, base http.Header) *Client {
	c := NewClient(Config{
		MaxRetries:  retries,
		Transport:   tr,
		BaseHeaders: base,
	})
	c.sleep = func(time.Duration) {} // no real waiting in tests
	return c
}

func TestDoRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	tr := &scriptedTransport{steps: []func(*http.Request) (*http.Response, error){
		respond(http.StatusInternalServerError, ""),
		respond(http.StatusTooManyRequests, ""),
		respond(http.StatusOK, "ok"),
	}}
	c := newTestClient(tr, 3, nil)

	resp, err := c.Get(context.Background(), "http://example.test/x", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	if tr.calls != 3 {
		t.Fatalf("attempts = %d, want 3", tr.calls)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestDoReturnsNonRetryableStatus(t *testing.T) {
	t.Parallel()

	tr := &scriptedTransport{steps: []func(*http.Request) (*http.Response, error){
		respond(http.StatusNotFound, "missing"),
	}}
	c := newTestClient(tr, 3, nil)

	resp, err := c.Get(context.Background(), "http://example.test/x", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	if tr.calls != 1 {
		t.Fatalf("attempts = %d, want 1 (404 must not be retried)", tr.calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("connection refused")
	tr := &scriptedTransport{steps: []func(*http.Request) (*http.Response, error){
		func(*http.Request) (*http.Response, error) { return nil, wantErr },
	}}
	c := newTestClient(tr, 2, nil)

	_, err := c.Get(context.Background(), "http://example.test/x", nil)
	if err == nil {
		t.Fatal("want error after exhausting retries")
	}
	if tr.calls != 3 {
		t.Fatalf("attempts = %d, want 3 (1 + 2 retries)", tr.calls)
	}
}

func TestHeaderPrecedence(t *testing.T) {
	t.Parallel()

	tr := &scriptedTransport{steps: []func(*http.Request) (*http.Response, error){
		respond(http.StatusOK, ""),
	}}
	base := http.Header{}
	base.Set("Apikey", "service-key")
	base.Set("Accept", "application/json")
	c := newTestClient(tr, 0, base)

	hdr := http.Header{}
	hdr.Set("Accept", "text/csv")
	resp, err := c.Get(context.Background(), "http://example.test/x", hdr)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	req := tr.seen[0]
	if got := req.Header.Get("Apikey"); got != "service-key" {
		t.Fatalf("base header lost: Apikey = %q", got)
	}
	if got := req.Header.Get("Accept"); got != "text/csv" {
		t.Fatalf("per-request header must win: Accept = %q", got)
	}
}

func TestDoCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(&scriptedTransport{steps: []func(*http.Request) (*http.Response, error){
		respond(http.StatusOK, ""),
	}}, 0, nil)

	if _, err := c.Get(ctx, "http://example.test/x", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestBackoffDuration(t *testing.T) {
	t.Parallel()

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 200 * time.Millisecond},
		{1, 400 * time.Millisecond},
		{2, 800 * time.Millisecond},
		{10, 5 * time.Second}, // clamped
	}
	for _, tc := range cases {
		got := backoffDuration(200*time.Millisecond, tc.attempt, 5*time.Second)
		if got != tc.want {
			t.Fatalf("backoffDuration(attempt=%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}
