// Package remote provides a resilient HTTP fetcher for external bond
// records: retries with exponential backoff and jitter, a circuit
// breaker shielding a failing upstream, and error classification. The
// payload stays opaque bytes; parsing belongs to the caller.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/bondradar/bondmon/pkg/logging"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the upstream endpoint; records are fetched from
	// BaseURL/{key}.
	BaseURL string

	// Timeout bounds each HTTP round trip.
	Timeout time.Duration

	// UserAgent identifies this service to the upstream.
	UserAgent string

	// Retry overrides the per-error-class retry defaults when set.
	Retry *RetryConfig

	// BreakerThreshold is the number of consecutive failed fetches
	// that opens the circuit.
	BreakerThreshold uint32

	// BreakerCooldown is how long the circuit stays open before a
	// half-open probe.
	BreakerCooldown time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:          30 * time.Second,
		UserAgent:        "bondmon/1.0",
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

// Client fetches records from the upstream HTTP endpoint. Its Fetch
// method has the gateway fetch signature, so a client plugs directly
// into the data gateway.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	retry   *RetryConfig
	logger  zerolog.Logger
}

// New creates a remote client for the configured endpoint.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.BreakerThreshold == 0 {
		cfg.BreakerThreshold = DefaultConfig().BreakerThreshold
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = DefaultConfig().BreakerCooldown
	}

	logger := logging.NewLogger("remote")

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetRetryCount(0)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "remote",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			BreakerState.Set(breakerStateValue(to))
			logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return &Client{
		http:    httpClient,
		breaker: breaker,
		retry:   cfg.Retry,
		logger:  logger,
	}, nil
}

// Fetch retrieves the raw record for key. While the breaker is open
// the upstream is not contacted and ErrCircuitOpen is returned.
func (c *Client) Fetch(ctx context.Context, key string) ([]byte, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		return c.fetchWithRetry(ctx, key)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) fetchWithRetry(ctx context.Context, key string) ([]byte, error) {
	var body []byte

	err := retryWithBackoff(ctx, c.retry, c.logger, func() error {
		start := time.Now()
		resp, err := c.http.R().SetContext(ctx).Get("/" + url.PathEscape(key))
		RequestDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			Errors.WithLabelValues(string(ErrorClassNetwork)).Inc()
			Requests.WithLabelValues("network_error").Inc()
			c.logger.Warn().Err(err).Str("key", key).Msg("Remote request failed")
			return &Error{
				Class:   ErrorClassNetwork,
				Message: "request failed",
				Err:     err,
			}
		}

		Requests.WithLabelValues(strconv.Itoa(resp.StatusCode())).Inc()

		if resp.StatusCode() >= 400 {
			class := classifyStatus(resp.StatusCode())
			Errors.WithLabelValues(string(class)).Inc()
			c.logger.Warn().
				Str("key", key).
				Int("status", resp.StatusCode()).
				Str("error_class", string(class)).
				Msg("Remote request returned error status")
			return &Error{
				StatusCode: resp.StatusCode(),
				Class:      class,
				Message:    resp.Status(),
			}
		}

		body = resp.Body()
		c.logger.Debug().
			Str("key", key).
			Int("status", resp.StatusCode()).
			Int("bytes", len(body)).
			Dur("duration", time.Since(start)).
			Msg("Remote request succeeded")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
