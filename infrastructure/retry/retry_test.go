package retry_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	infraerrors "github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/errors"
	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) retry.Config {
	return retry.Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Retry(context.Background(), fastConfig(3), func() error {
		calls++
		if calls < 3 {
			return &infraerrors.HTTPError{StatusCode: http.StatusBadGateway}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	t.Parallel()

	calls := 0
	permanent := &infraerrors.HTTPError{StatusCode: http.StatusUnprocessableEntity}
	err := retry.Retry(context.Background(), fastConfig(5), func() error {
		calls++
		return permanent
	})

	assert.Same(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	err := retry.Retry(context.Background(), fastConfig(2), func() error {
		return &infraerrors.HTTPError{StatusCode: http.StatusTooManyRequests}
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, retry.ErrMaxAttemptsExceeded))
	assert.True(t, infraerrors.IsTemporary(err))
}

func TestRetry_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Retry(ctx, fastConfig(3), func() error { return nil })
	assert.True(t, errors.Is(err, retry.ErrContextCancelled))
}

func TestConfig_Delay(t *testing.T) {
	t.Parallel()

	cfg := retry.Config{InitialDelay: 500 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}
	assert.Equal(t, 500*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, time.Second, cfg.Delay(2))
	assert.Equal(t, time.Second, cfg.Delay(5))
}
