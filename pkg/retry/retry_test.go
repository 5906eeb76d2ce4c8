package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return Retryable(errors.New("connection refused"))
		}
		return nil
	}, WithMaxAttempts(5), WithInitialDelay(time.Millisecond), WithJitter(0))

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	cause := errors.New("invalid signature")
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return Permanent(cause)
	}, WithMaxAttempts(5), WithInitialDelay(time.Millisecond))

	assert.Equal(t, cause, err)
	assert.Equal(t, 1, attempts)
}

func TestDoExhaustsAttempts(t *testing.T) {
	cause := errors.New("timeout")
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return Retryable(cause)
	}, WithMaxAttempts(3), WithInitialDelay(time.Millisecond), WithJitter(0))

	assert.Equal(t, cause, err)
	assert.Equal(t, 3, attempts)
}

func TestDoNonRetryableErrorReturnsImmediately(t *testing.T) {
	cause := errors.New("plain failure")
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return cause
	}, WithMaxAttempts(5))

	assert.Equal(t, cause, err)
	assert.Equal(t, 1, attempts)
}

func TestDoCustomRetryIf(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("always retry me")
	},
		WithMaxAttempts(3),
		WithInitialDelay(time.Millisecond),
		WithJitter(0),
		WithRetryIf(func(error) bool { return true }),
	)

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDoHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Do(ctx, func(ctx context.Context) error {
		attempts++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, attempts)
}

func TestDoWithDataReturnsValue(t *testing.T) {
	attempts := 0
	got, err := DoWithData(context.Background(), func(ctx context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", Retryable(errors.New("flaky"))
		}
		return "pi_123", nil
	}, WithMaxAttempts(3), WithInitialDelay(time.Millisecond), WithJitter(0))

	assert.NoError(t, err)
	assert.Equal(t, "pi_123", got)
}

func TestOnRetryCallback(t *testing.T) {
	var delays []time.Duration
	_ = Do(context.Background(), func(ctx context.Context) error {
		return Retryable(errors.New("flaky"))
	},
		WithMaxAttempts(3),
		WithInitialDelay(time.Millisecond),
		WithJitter(0),
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			delays = append(delays, delay)
		}),
	)

	// The callback fires before each retry, not after the final attempt.
	assert.Len(t, delays, 2)
}

func TestRetryableAndPermanentClassifiers(t *testing.T) {
	cause := errors.New("boom")

	assert.True(t, IsRetryable(Retryable(cause)))
	assert.False(t, IsRetryable(cause))
	assert.True(t, IsPermanent(Permanent(cause)))
	assert.False(t, IsPermanent(Retryable(cause)))

	assert.ErrorIs(t, Retryable(cause), cause)
	assert.ErrorIs(t, Permanent(cause), cause)
}
