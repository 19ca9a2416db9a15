package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithExponentialBackoff_Success(t *testing.T) {
	t.Parallel()
	attempts := 0
	op := func() error {
		attempts++
		return nil
	}

	err := WithExponentialBackoff(context.Background(), op)

	if err != nil {
		t.Errorf("expected no error, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got: %d", attempts)
	}
}

func TestWithExponentialBackoff_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("throttled")
		}
		return nil
	}

	err := WithExponentialBackoff(context.Background(), op, WithInitialDelay(time.Millisecond))

	if err != nil {
		t.Errorf("expected success after retries, got: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got: %d", attempts)
	}
}

func TestWithExponentialBackoff_BudgetExhausted(t *testing.T) {
	t.Parallel()
	attempts := 0
	op := func() error {
		attempts++
		return errors.New("still throttled")
	}

	err := WithExponentialBackoff(context.Background(), op,
		WithMaxRetries(3),
		WithInitialDelay(time.Millisecond))

	if err == nil {
		t.Fatal("expected error after exhausting retries, got nil")
	}
	// MaxRetries counts retries after the first attempt.
	if attempts != 4 {
		t.Errorf("expected 4 attempts (1 + 3 retries), got: %d", attempts)
	}
}

func TestWithExponentialBackoff_FatalStopsImmediately(t *testing.T) {
	t.Parallel()
	sentinel := errors.New("name collision")
	attempts := 0
	op := func() error {
		attempts++
		return Fatal(sentinel)
	}

	err := WithExponentialBackoff(context.Background(), op, WithInitialDelay(time.Millisecond))

	if attempts != 1 {
		t.Errorf("expected 1 attempt for fatal error, got: %d", attempts)
	}
	// The original error must come back unchanged so callers can match it.
	if !errors.Is(err, sentinel) {
		t.Errorf("expected sentinel error, got: %v", err)
	}
	if IsFatal(err) {
		t.Error("returned error should be unwrapped from its fatal marker")
	}
}

func TestWithExponentialBackoff_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	op := func() error {
		attempts++
		cancel()
		return errors.New("transient")
	}

	err := WithExponentialBackoff(ctx, op, WithInitialDelay(50*time.Millisecond))

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt before cancellation, got: %d", attempts)
	}
}

func TestFatal_NilStaysNil(t *testing.T) {
	t.Parallel()
	if Fatal(nil) != nil {
		t.Error("Fatal(nil) must return nil")
	}
	if IsFatal(nil) {
		t.Error("IsFatal(nil) must be false")
	}
}

func TestWithExponentialBackoff_DelayCapped(t *testing.T) {
	t.Parallel()
	start := time.Now()
	attempts := 0
	op := func() error {
		attempts++
		return errors.New("transient")
	}

	_ = WithExponentialBackoff(context.Background(), op,
		WithMaxRetries(3),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(2*time.Millisecond),
		WithMultiplier(100))

	if attempts != 4 {
		t.Errorf("expected 4 attempts, got: %d", attempts)
	}
	// 3 capped delays of 2ms; generous upper bound to avoid flakes.
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("delays not capped, took %v", elapsed)
	}
}
