package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	apperrors "github.com/chronoslabs/chronos/errors"
)

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}, func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected ok, got %q", result)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetryRecoversAfterFailures(t *testing.T) {
	calls := 0
	result, err := Retry(context.Background(), RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %d", result)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("persistent")
	_, err := Retry(context.Background(), RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}, func() (int, error) {
		calls++
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 calls, got %d", calls)
	}
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	fatal := errors.New("fatal")
	_, err := Retry(context.Background(), RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Millisecond,
		RetryIf:        func(err error) bool { return !errors.Is(err, fatal) },
	}, func() (int, error) {
		calls++
		return 0, fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected fatal error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"plain error", errors.New("transient"), true},
		{"cancelled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"retryable app error", apperrors.ConnectionFailed("graph", nil), true},
		{"non-retryable app error", apperrors.NotFound("node", "hist-1"), false},
		// The error's own retryability wins over a context sentinel it wraps.
		{"retryable wrapping deadline", apperrors.ConnectionFailed("graph", context.DeadlineExceeded), true},
		{"wrapped app error", fmt.Errorf("acquire: %w", apperrors.NotFound("node", "x")), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRetryIf(tt.err); got != tt.want {
				t.Errorf("DefaultRetryIf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetryContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := Retry(ctx, RetryConfig{MaxAttempts: 10, InitialBackoff: time.Second}, func() (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", calls)
	}
}

func TestRetryOnRetryCallback(t *testing.T) {
	var attempts []int
	_, _ = Retry(context.Background(), RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			attempts = append(attempts, attempt)
		},
	}, func() (int, error) {
		return 0, errors.New("transient")
	})
	// No callback after the final attempt.
	if len(attempts) != 2 {
		t.Fatalf("expected 2 retry callbacks, got %d", len(attempts))
	}
	if attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("unexpected attempt sequence: %v", attempts)
	}
}

func TestCalculateBackoffExponential(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Minute,
		BackoffFactor:  2.0,
		Strategy:       BackoffExponential,
	}
	for i, want := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond} {
		if got := calculateBackoff(i+1, cfg); got != want {
			t.Errorf("attempt %d: expected %v, got %v", i+1, want, got)
		}
	}
}

func TestCalculateBackoffLinear(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     time.Minute,
		Strategy:       BackoffLinear,
	}
	for i, want := range []time.Duration{500 * time.Millisecond, time.Second, 1500 * time.Millisecond} {
		if got := calculateBackoff(i+1, cfg); got != want {
			t.Errorf("attempt %d: expected %v, got %v", i+1, want, got)
		}
	}
}

func TestCalculateBackoffCapped(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     2 * time.Second,
		BackoffFactor:  10.0,
		Strategy:       BackoffExponential,
	}
	if got := calculateBackoff(5, cfg); got != 2*time.Second {
		t.Errorf("expected cap at 2s, got %v", got)
	}
}

func TestRetryFunc(t *testing.T) {
	calls := 0
	err := RetryFunc(context.Background(), RetryConfig{MaxAttempts: 2, InitialBackoff: time.Millisecond}, func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}
