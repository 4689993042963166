package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/retry"
)

func fastConfig(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		IsRetryable:  func(error) bool { return true },
	}
}

func TestRetry_SucceedsAfterFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	var retried []int
	cfg := fastConfig(5)
	cfg.OnRetry = func(attempt int, _ time.Duration, _ error) { retried = append(retried, attempt) }

	err := retry.Retry(context.Background(), cfg, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	cause := errors.New("i/o timeout")
	calls := 0
	err := retry.Retry(context.Background(), fastConfig(3), func(context.Context) error {
		calls++
		return cause
	})

	require.ErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, 3, calls)
}

func TestRetry_NonRetryableStopsImmediately(t *testing.T) {
	t.Parallel()

	cfg := fastConfig(5)
	cfg.IsRetryable = retry.DefaultIsRetryable
	cause := errors.New("security_exception: unable to authenticate")

	calls := 0
	err := retry.Retry(context.Background(), cfg, func(context.Context) error {
		calls++
		return cause
	})

	assert.Equal(t, cause, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Retry(ctx, fastConfig(3), func(context.Context) error {
		t.Fatal("fn must not run on a cancelled context")
		return nil
	})
	require.ErrorIs(t, err, retry.ErrContextCancelled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDefaultIsRetryable(t *testing.T) {
	t.Parallel()

	assert.False(t, retry.DefaultIsRetryable(nil))
	assert.True(t, retry.DefaultIsRetryable(errors.New("dial tcp: Connection Refused")))
	assert.True(t, retry.DefaultIsRetryable(context.DeadlineExceeded))
	assert.False(t, retry.DefaultIsRetryable(errors.New("index_not_found_exception")))
}
