package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/retail-pos/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func TestDoWithResult(t *testing.T) {

	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		calls := 0
		cfg := retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.LinearBackoff(time.Millisecond),
		}

		v, err := retry.DoWithResult(t.Context(), cfg, func() (int, error) {
			calls++
			if calls < 3 {
				return 0, errTransient
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, v)
		assert.Equal(t, 3, calls)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		calls := 0
		cfg := retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.LinearBackoff(time.Millisecond),
		}

		_, err := retry.DoWithResult(t.Context(), cfg, func() (int, error) {
			calls++
			return 0, errTransient
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("NonRetryableStopsImmediately", func(t *testing.T) {
		fatal := errors.New("fatal")
		calls := 0
		cfg := retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.LinearBackoff(time.Millisecond),
			ShouldRetry: func(err error) bool {
				return errors.Is(err, errTransient)
			},
		}

		_, err := retry.DoWithResult(t.Context(), cfg, func() (int, error) {
			calls++
			return 0, fatal
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, fatal)
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := retry.DoWithResult(ctx, retry.RetryConfig{}, func() (int, error) {
			t.Fatal("fn must not be called")
			return 0, nil
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
