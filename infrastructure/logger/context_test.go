package logger_test

import (
	"context"
	"testing"

	"github.com/belonio2793/backlinkoo-solar-system-sub047/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext_ReturnsStoredLogger(t *testing.T) {
	t.Parallel()

	stored, err := logger.New(logger.Config{Level: "debug", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)

	ctx := logger.WithContext(context.Background(), stored)
	assert.Same(t, stored, logger.FromContext(ctx))
}

func TestFromContext_EmptyContextFallsBack(t *testing.T) {
	t.Parallel()

	got := logger.FromContext(context.Background())
	require.NotNil(t, got)

	got.Warn("fallback logger accepts fields", logger.String("key", "value"))
}

func TestNewNop_WithReturnsUsableLogger(t *testing.T) {
	t.Parallel()

	l := logger.NewNop().With(logger.Int("attempt", 1))
	l.Info("dropped")
	assert.NoError(t, l.Sync())
}
