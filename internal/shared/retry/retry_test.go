package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tipdrop/internal/shared/retry"
)

func fastConfig() retry.Config {
	return retry.Config{
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
	}
}

func TestDoRetriesTransientUntilSuccess(t *testing.T) {
	attempts := 0
	err := retry.Do(context.Background(), fastConfig(), func() error {
		attempts++
		if attempts < 3 {
			return retry.Transient(errors.New("connection reset"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	boom := errors.New("still down")
	attempts := 0
	err := retry.Do(context.Background(), fastConfig(), func() error {
		attempts++
		return retry.Transient(boom)
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected last error, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestDoStopsOnPermanent(t *testing.T) {
	boom := errors.New("constraint violated")
	attempts := 0
	err := retry.Do(context.Background(), fastConfig(), func() error {
		attempts++
		return retry.Permanent(boom)
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("permanent error should not retry, got %d attempts", attempts)
	}
}

func TestDoDoesNotRetryUnmarkedErrors(t *testing.T) {
	attempts := 0
	err := retry.Do(context.Background(), fastConfig(), func() error {
		attempts++
		return errors.New("plain failure")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if attempts != 1 {
		t.Fatalf("unmarked error should not retry, got %d attempts", attempts)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Do(ctx, fastConfig(), func() error {
		return retry.Transient(errors.New("transient"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
