package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTemporary = errors.New("temporary")

func TestDo(t *testing.T) {
	fast := ConstantBackoff(time.Millisecond)

	t.Run("SucceedsAfterRetries", func(t *testing.T) {
		var calls, retries int
		err := Do(t.Context(), Policy{
			Attempts: 3,
			Backoff:  fast,
			OnRetry:  func(int, error) { retries++ },
		}, func() error {
			calls++
			if calls < 3 {
				return errTemporary
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, 2, retries)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		var calls int
		err := Do(t.Context(), Policy{Attempts: 2, Backoff: fast}, func() error {
			calls++
			return errTemporary
		})
		require.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 2, calls)
	})

	t.Run("NotRetriable", func(t *testing.T) {
		var calls int
		err := Do(t.Context(), Policy{
			Attempts:  5,
			Backoff:   fast,
			Retriable: func(error) bool { return false },
		}, func() error {
			calls++
			return errTemporary
		})
		require.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 1, calls)
	})

	t.Run("Permanent", func(t *testing.T) {
		var calls int
		err := Do(t.Context(), Policy{Attempts: 5, Backoff: fast}, func() error {
			calls++
			return Permanent(errTemporary)
		})
		require.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 1, calls)
		assert.NoError(t, Permanent(nil))
	})

	t.Run("ZeroPolicyRunsOnce", func(t *testing.T) {
		var calls int
		err := Do(t.Context(), Policy{}, func() error {
			calls++
			return errTemporary
		})
		require.ErrorIs(t, err, errTemporary)
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		err := Do(ctx, Policy{}, func() error { return nil })
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("CanceledWhileWaiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		err := Do(ctx, Policy{
			Attempts: 3,
			Backoff:  ConstantBackoff(time.Hour),
			OnRetry:  func(int, error) { cancel() },
		}, func() error {
			return errTemporary
		})
		require.ErrorIs(t, err, context.Canceled)
		require.ErrorIs(t, err, errTemporary)
	})
}

func TestDoWithResult(t *testing.T) {
	v, err := DoWithResult(t.Context(), Policy{}, func() (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff(10*time.Millisecond, time.Second)

	d := b(1)
	assert.GreaterOrEqual(t, d, 20*time.Millisecond)
	assert.Less(t, d, 30*time.Millisecond)

	assert.Equal(t, time.Second, b(20))
	assert.Equal(t, time.Second, b(100))
}
