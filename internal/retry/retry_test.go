package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Houeta/stock-flow/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func TestExponential(t *testing.T) {
	backoff := retry.Exponential(time.Second)

	assert.Equal(t, time.Second, backoff(0))
	assert.Equal(t, 2*time.Second, backoff(1))
	assert.Equal(t, 4*time.Second, backoff(2))
	assert.Equal(t, time.Second, backoff(-1))
}

func TestDo(t *testing.T) {
	fastPolicy := func(maxAttempts int) retry.Policy {
		return retry.Policy{
			MaxAttempts: maxAttempts,
			Backoff:     retry.Exponential(time.Millisecond),
			IsRetryable: func(err error) bool { return errors.Is(err, errTransient) },
		}
	}

	t.Run("success on first attempt", func(t *testing.T) {
		calls := 0
		result, err := retry.Do(t.Context(), fastPolicy(3), func(_ context.Context, _ int) (string, error) {
			calls++
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("success after transient failures", func(t *testing.T) {
		var attempts []int
		result, err := retry.Do(t.Context(), fastPolicy(3), func(_ context.Context, attempt int) (int, error) {
			attempts = append(attempts, attempt)
			if attempt < 2 {
				return 0, errTransient
			}
			return 7, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 7, result)
		assert.Equal(t, []int{0, 1, 2}, attempts)
	})

	t.Run("exhausted attempts", func(t *testing.T) {
		calls := 0
		_, err := retry.Do(t.Context(), fastPolicy(3), func(_ context.Context, _ int) (int, error) {
			calls++
			return 0, errTransient
		})

		require.ErrorIs(t, err, retry.ErrExhausted)
		require.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable error returns immediately", func(t *testing.T) {
		calls := 0
		_, err := retry.Do(t.Context(), fastPolicy(3), func(_ context.Context, _ int) (int, error) {
			calls++
			return 0, assert.AnError
		})

		require.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, retry.ErrExhausted)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts", func(t *testing.T) {
		_, err := retry.Do(t.Context(), fastPolicy(0), func(_ context.Context, _ int) (int, error) {
			t.Fatal("fn must not be called")
			return 0, nil
		})

		require.ErrorIs(t, err, retry.ErrZeroAttempts)
	})

	t.Run("on retry hook sees delays", func(t *testing.T) {
		var delays []time.Duration
		policy := fastPolicy(3)
		policy.OnRetry = func(_ int, _ error, delay time.Duration) {
			delays = append(delays, delay)
		}

		_, _ = retry.Do(t.Context(), policy, func(_ context.Context, _ int) (int, error) {
			return 0, errTransient
		})

		// No sleep after the last attempt.
		assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, delays)
	})

	t.Run("context cancelled during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		policy := retry.Policy{
			MaxAttempts: 5,
			Backoff:     retry.Exponential(time.Hour),
			OnRetry:     func(int, error, time.Duration) { cancel() },
		}

		calls := 0
		start := time.Now()
		_, err := retry.Do(ctx, policy, func(_ context.Context, _ int) (int, error) {
			calls++
			return 0, errTransient
		})

		require.ErrorIs(t, err, context.Canceled)
		require.ErrorIs(t, err, errTransient)
		assert.Equal(t, 1, calls)
		assert.Less(t, time.Since(start), time.Minute)
	})
}
