// Package retry runs an operation under an explicit retry policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrZeroAttempts is returned when the policy allows no attempt at all.
	ErrZeroAttempts = errors.New("retry policy allows zero attempts")
	// ErrExhausted wraps the last error once every attempt failed.
	ErrExhausted = errors.New("retry attempts exhausted")
)

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of calls, the first one included.
	MaxAttempts int
	// Backoff returns the delay after the failed attempt with the given 0-based index.
	Backoff func(attempt int) time.Duration
	// IsRetryable decides whether an error is worth another attempt. Nil means every error is.
	IsRetryable func(err error) bool
	// OnRetry is called before sleeping between attempts. Optional.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Exponential returns a backoff of base * 2^attempt.
func Exponential(base time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}
		return base * time.Duration(1<<attempt)
	}
}

// Do calls fn until it succeeds, returns a non-retryable error, the attempts are
// exhausted or ctx is done. The sleep between attempts is interrupted by ctx.
func Do[T any](ctx context.Context, policy Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T

	if policy.MaxAttempts < 1 {
		return zero, ErrZeroAttempts
	}

	var lastErr error
	for attempt := range policy.MaxAttempts {
		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, fmt.Errorf("retry aborted: %w", errors.Join(ctx.Err(), err))
		}

		if policy.IsRetryable != nil && !policy.IsRetryable(err) {
			return zero, err
		}

		if attempt == policy.MaxAttempts-1 {
			break
		}

		var delay time.Duration
		if policy.Backoff != nil {
			delay = policy.Backoff(attempt)
		}
		if policy.OnRetry != nil {
			policy.OnRetry(attempt, err, delay)
		}

		if err = sleep(ctx, delay); err != nil {
			return zero, fmt.Errorf("retry aborted: %w", errors.Join(err, lastErr))
		}
	}

	return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, policy.MaxAttempts, lastErr)
}

func sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
