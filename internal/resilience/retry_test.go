package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	err := Do(context.Background(), DefaultRetryConfig(), func(_ context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_SuccessAfterRetry(t *testing.T) {
	var calls int
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
		Multiplier:     2.0,
	}

	err := Do(context.Background(), cfg, func(_ context.Context) error {
		calls++
		if calls < 3 {
			return NewTransientError(errors.New("temporary"), 503)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	var calls int
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
		Multiplier:     2.0,
	}

	err := Do(context.Background(), cfg, func(_ context.Context) error {
		calls++
		return NewTransientError(errors.New("always fails"), 500)
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_NonTransientError_NoRetry(t *testing.T) {
	var calls int
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
	}

	err := Do(context.Background(), cfg, func(_ context.Context) error {
		calls++
		return errors.New("permanent error: bad request")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call (no retry for non-transient), got %d", calls)
	}
}

func TestDo_ContextCancelled_StopsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	cfg := RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
		Multiplier:     2.0,
	}

	err := Do(ctx, cfg, func(_ context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return NewTransientError(errors.New("fail"), 500)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	// Should stop after cancel (2 calls max).
	if calls > 3 {
		t.Errorf("expected <= 3 calls after cancel, got %d", calls)
	}
}

func TestDo_CustomShouldRetry(t *testing.T) {
	var calls int
	cfg := RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Millisecond,
		ShouldRetry: func(err error) bool {
			return err.Error() == "retry me"
		},
	}

	err := Do(context.Background(), cfg, func(_ context.Context) error {
		calls++
		return errors.New("retry me")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls with custom ShouldRetry, got %d", calls)
	}
}

func TestDoVal_ReturnsValue(t *testing.T) {
	val, err := DoVal(context.Background(), DefaultRetryConfig(), func(_ context.Context) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != 42 {
		t.Errorf("expected 42, got %d", val)
	}
}

func TestDoVal_ZeroValueOnFailure(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 1}
	val, err := DoVal(context.Background(), cfg, func(_ context.Context) (string, error) {
		return "partial", errors.New("failed")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if val != "" {
		t.Errorf("expected zero value, got %q", val)
	}
}

func TestComputeBackoff_RespectsMax(t *testing.T) {
	cfg := applyDefaults(RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     2 * time.Second,
		Multiplier:     10,
	})
	// Attempt 5 would be 100000s without the cap; jitter is at most 25%.
	d := computeBackoff(5, cfg)
	if d > 2*time.Second+2*time.Second/4 {
		t.Errorf("backoff %v exceeds max plus jitter", d)
	}
}
