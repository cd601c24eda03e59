package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"time"
)

// Config bounds a retry loop around a transient failure.
type Config struct {
	MaxAttempts int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// DefaultConfig covers record-store reads: three attempts with short,
// jittered exponential backoff before the failure surfaces to the caller.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseBackoff: 100 * time.Millisecond,
		MaxBackoff:  2 * time.Second,
	}
}

// Do runs fn with exponential backoff until it succeeds, the error is
// definitively non-retryable, or attempts run out. The last error is returned.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultConfig()
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff(cfg, attempt-1)):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

// IsRetryable reports whether err looks transient. Context cancellation is
// never retried; everything the caller marked Permanent is returned as-is.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var perm *PermanentError
	if errors.As(err, &perm) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var transient *TransientError
	return errors.As(err, &transient)
}

// TransientError marks an error as worth retrying.
type TransientError struct{ Err error }

func (e *TransientError) Error() string { return e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err so Do will retry it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// PermanentError short-circuits the loop regardless of other signals.
type PermanentError struct{ Err error }

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so Do returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func backoff(cfg Config, exponent int) time.Duration {
	d := cfg.BaseBackoff << exponent
	if d > cfg.MaxBackoff {
		d = cfg.MaxBackoff
	}
	// Up to 25% jitter keeps concurrent retries from aligning.
	jitter := time.Duration(rand.Int64N(int64(d)/4 + 1))
	return d + jitter
}
