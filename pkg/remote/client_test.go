package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bondradar/bondmon/pkg/gateway"
)

// fastRetry keeps test backoffs in the millisecond range.
func fastRetry(attempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func newTestClient(t *testing.T, serverURL string, retry *RetryConfig) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.BaseURL = serverURL
	cfg.Retry = retry

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() without BaseURL should return an error")
	}
}

func TestFetch_Success(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path != "/RU000A105EX7" {
			t.Errorf("path = %q, want /RU000A105EX7", r.URL.Path)
		}
		w.Write([]byte(`{"isin":"RU000A105EX7"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, fastRetry(3))

	body, err := c.Fetch(context.Background(), "RU000A105EX7")
	if err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}
	if string(body) != `{"isin":"RU000A105EX7"}` {
		t.Errorf("body = %q, want payload", body)
	}
	if requests.Load() != 1 {
		t.Errorf("requests = %d, want 1", requests.Load())
	}
}

func TestFetch_ClientErrorNotRetried(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, fastRetry(3))

	_, err := c.Fetch(context.Background(), "MISSING")
	if err == nil {
		t.Fatal("Fetch() should fail on 404")
	}

	var remoteErr *Error
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error = %v, want *Error in chain", err)
	}
	if remoteErr.Class != ErrorClassClient {
		t.Errorf("Class = %v, want client", remoteErr.Class)
	}
	if remoteErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", remoteErr.StatusCode)
	}
	if requests.Load() != 1 {
		t.Errorf("requests = %d, want 1 (client errors are not retried)", requests.Load())
	}
}

func TestFetch_ServerErrorRetriedThenSucceeds(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, fastRetry(3))

	body, err := c.Fetch(context.Background(), "BOND")
	if err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}
	if string(body) != "recovered" {
		t.Errorf("body = %q, want %q", body, "recovered")
	}
	if requests.Load() != 3 {
		t.Errorf("requests = %d, want 3 (two failures then success)", requests.Load())
	}
}

func TestFetch_RetryExhausted(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, fastRetry(3))

	_, err := c.Fetch(context.Background(), "BOND")
	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("error = %v, want ErrRetryExhausted in chain", err)
	}
	if requests.Load() != 3 {
		t.Errorf("requests = %d, want 3 attempts", requests.Load())
	}

	var remoteErr *Error
	if !errors.As(err, &remoteErr) {
		t.Fatalf("error = %v, want *Error in chain", err)
	}
	if remoteErr.Class != ErrorClassServer {
		t.Errorf("Class = %v, want server", remoteErr.Class)
	}
}

func TestFetch_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = server.URL
	cfg.Retry = fastRetry(1)
	cfg.BreakerThreshold = 2
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}

	ctx := context.Background()
	c.Fetch(ctx, "A")
	c.Fetch(ctx, "B")

	before := requests.Load()
	_, err = c.Fetch(ctx, "C")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("error = %v, want ErrCircuitOpen after threshold failures", err)
	}
	if requests.Load() != before {
		t.Error("open breaker must not contact the upstream")
	}
}

func TestFetch_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	slow := &RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    5 * time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}
	c := newTestClient(t, server.URL, slow)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := c.Fetch(ctx, "BOND")
	if !errors.Is(err, ErrContextCancelled) {
		t.Fatalf("error = %v, want ErrContextCancelled", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Fetch() took %v, should abort backoff on cancellation", elapsed)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorClass
	}{
		{429, ErrorClassRateLimit},
		{400, ErrorClassClient},
		{404, ErrorClassClient},
		{500, ErrorClassServer},
		{502, ErrorClassServer},
		{200, ""},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status); got != tt.expected {
			t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestShouldRetry(t *testing.T) {
	if shouldRetry(ErrorClassClient) {
		t.Error("client errors must not be retried")
	}
	for _, class := range []ErrorClass{ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork} {
		if !shouldRetry(class) {
			t.Errorf("%s errors should be retried", class)
		}
	}
}

func TestFetch_SatisfiesGatewayFetchFunc(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, fastRetry(1))

	var fetch gateway.FetchFunc[[]byte] = c.Fetch
	body, err := fetch(context.Background(), "BOND")
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}
}
