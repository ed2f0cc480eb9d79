package engine

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	rc := RetryConfig{InitialWait: time.Second, MaxWait: 30 * time.Second, Multiplier: 2.0}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second}, // capped
		{10, 30 * time.Second},
	}
	for _, tt := range tests {
		if got := rc.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestRetryDoTransient(t *testing.T) {
	rc := RetryConfig{MaxRetries: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2.0}

	calls := 0
	got, err := RetryDo(context.Background(), rc, func() (string, error) {
		calls++
		if calls < 3 {
			return "", &statusError{code: http.StatusServiceUnavailable}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got %q after %d calls, want ok after 3", got, calls)
	}
}

func TestRetryDoPermanentError(t *testing.T) {
	rc := RetryConfig{MaxRetries: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2.0}

	permanent := errors.New("bad input")
	calls := 0
	_, err := RetryDo(context.Background(), rc, func() (int, error) {
		calls++
		return 0, permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("permanent error retried %d times", calls)
	}
}

func TestRetryDoExhaustion(t *testing.T) {
	rc := RetryConfig{MaxRetries: 2, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond, Multiplier: 2.0}

	calls := 0
	_, err := RetryDo(context.Background(), rc, func() (int, error) {
		calls++
		return 0, &statusError{code: http.StatusBadGateway}
	})
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
}

func TestRetryDoCancelled(t *testing.T) {
	rc := RetryConfig{MaxRetries: 5, InitialWait: 50 * time.Millisecond, MaxWait: time.Second, Multiplier: 2.0}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RetryDo(ctx, rc, func() (int, error) {
		return 0, &statusError{code: http.StatusInternalServerError}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	retryable := []int{429, 500, 502, 503, 504}
	for _, code := range retryable {
		if !IsRetryableStatus(code) {
			t.Errorf("IsRetryableStatus(%d) = false, want true", code)
		}
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404, 410} {
		if IsRetryableStatus(code) {
			t.Errorf("IsRetryableStatus(%d) = true, want false", code)
		}
	}
}
