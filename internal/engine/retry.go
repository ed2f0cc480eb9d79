package engine

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// RetryConfig controls retry behavior for transient failures.
type RetryConfig struct {
	MaxRetries  int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig is suitable for most extraction HTTP calls.
var DefaultRetryConfig = RetryConfig{
	MaxRetries:  3,
	InitialWait: 500 * time.Millisecond,
	MaxWait:     10 * time.Second,
	Multiplier:  2.0,
}

// Backoff returns the wait before retry number attempt (0-based), capped at MaxWait.
func (rc RetryConfig) Backoff(attempt int) time.Duration {
	wait := rc.InitialWait
	for i := 0; i < attempt; i++ {
		wait = time.Duration(float64(wait) * rc.Multiplier)
		if wait >= rc.MaxWait {
			return rc.MaxWait
		}
	}
	if wait > rc.MaxWait {
		wait = rc.MaxWait
	}
	return wait
}

// RetryDo retries fn with exponential backoff on transient errors.
// Non-transient errors and context cancellation return immediately.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= rc.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsTransient(err) {
			return zero, err
		}
		if attempt == rc.MaxRetries {
			break
		}

		wait := rc.Backoff(attempt)
		slog.Debug("retrying", slog.Int("attempt", attempt+1), slog.Duration("wait", wait), slog.Any("error", err))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, lastErr
}

// RetryHTTP executes an HTTP request function with retry logic.
// Responses with retryable status codes are closed and retried.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return RetryDo(ctx, rc, func() (*http.Response, error) {
		resp, err := fn()
		if err != nil {
			return nil, err
		}
		if IsRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &statusError{code: resp.StatusCode}
		}
		return resp, nil
	})
}

// statusError wraps a retryable HTTP status code so IsTransient recognizes it.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return http.StatusText(e.code)
}

// IsTransient reports whether err is worth retrying: a retryable HTTP
// status, a connection-level failure, a DNS failure, or a timeout.
func IsTransient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	// net.Error includes OpError, so this check comes last.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// IsRetryableStatus reports whether an HTTP status code is worth retrying.
func IsRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
