package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/field-usage/infrastructure/logger"
)

func TestWithContext_FromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	l := mustTestLogger(t)
	ctx := logger.WithContext(context.Background(), l)

	assert.Same(t, l, logger.FromContext(ctx))
}

func TestFromContext_NoLogger_ReturnsFallback(t *testing.T) {
	t.Parallel()

	fallback := logger.FromContext(context.Background())
	require.NotNil(t, fallback)

	// Warn level: debug and info are filtered but must not panic.
	fallback.Debug("debug message")
	fallback.Info("info message")
	fallback.Warn("message with field", logger.String("key", "value"))
}

func TestFromContext_FallbackIsShared(t *testing.T) {
	t.Parallel()

	a := logger.FromContext(context.Background())
	b := logger.FromContext(context.Background())

	assert.Same(t, a, b)
}

func TestWithContext_OverwritesPrevious(t *testing.T) {
	t.Parallel()

	first := mustTestLogger(t)
	second := mustTestLogger(t)

	ctx := logger.WithContext(context.Background(), first)
	ctx = logger.WithContext(ctx, second)

	assert.Same(t, second, logger.FromContext(ctx))
}

func TestFromContext_WithFieldsPreserved(t *testing.T) {
	t.Parallel()

	base := mustTestLogger(t)
	enriched := base.With(logger.String("pattern", "logs-*"))

	ctx := logger.WithContext(context.Background(), enriched)
	got := logger.FromContext(ctx)

	assert.Same(t, enriched, got)
	assert.NotSame(t, base, got)
}

func mustTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	l, err := logger.New(logger.Config{Level: "warn"})
	require.NoError(t, err)
	return l
}
