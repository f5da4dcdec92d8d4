package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestProductionConfig(t *testing.T) {
	cfg := ProductionConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestNew(t *testing.T) {
	t.Run("console logger", func(t *testing.T) {
		log, err := New(DefaultConfig())
		require.NoError(t, err)
		require.NotNil(t, log)
	})

	t.Run("json logger", func(t *testing.T) {
		log, err := New(ProductionConfig())
		require.NoError(t, err)
		require.NotNil(t, log)
	})
}

func TestNewForEnvironment(t *testing.T) {
	devLogger, err := NewForEnvironment("development")
	require.NoError(t, err)
	require.NotNil(t, devLogger)

	prodLogger, err := NewForEnvironment("production")
	require.NoError(t, err)
	require.NotNil(t, prodLogger)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestWithContext(t *testing.T) {
	log := zap.NewNop()
	ctx := WithContext(context.Background(), log)

	retrieved := FromContext(ctx)
	assert.Equal(t, log, retrieved)
}

func TestFromContext_NotFound(t *testing.T) {
	retrieved := FromContext(context.Background())
	require.NotNil(t, retrieved)
	// No-op logger does not panic
	retrieved.Info("test")
}

func TestWithRequestID(t *testing.T) {
	log := zap.NewNop()
	ctx, enriched := WithRequestID(context.Background(), log, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.NotNil(t, enriched)
	assert.Equal(t, enriched, FromContext(ctx))
}

func TestWithAccountID(t *testing.T) {
	log := zap.NewNop()
	ctx, enriched := WithAccountID(context.Background(), log, "acc-456")

	assert.Equal(t, "acc-456", GetAccountID(ctx))
	assert.NotNil(t, enriched)
}

func TestGetRequestID_NotFound(t *testing.T) {
	assert.Equal(t, "", GetRequestID(context.Background()))
}

func TestGetAccountID_NotFound(t *testing.T) {
	assert.Equal(t, "", GetAccountID(context.Background()))
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	log := zap.NewNop()
	result := WithTraceContext(context.Background(), log)
	assert.Equal(t, log, result)
}

func TestL_ReturnsContextLogger(t *testing.T) {
	cl := L(context.Background())
	require.NotNil(t, cl)
	// Should not panic with a no-op logger
	cl.Info("test")
	cl.Debug("test")
	cl.Warn("test")
	cl.Error("test")
}

func TestContextLogger_With(t *testing.T) {
	ctx := WithContext(context.Background(), zap.NewNop())
	cl := L(ctx).With(zap.String("key", "value"))
	require.NotNil(t, cl)
	cl.Info("test")
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	// enrichedLogger falls back to no-op
	cl.Info("does not panic")
}
