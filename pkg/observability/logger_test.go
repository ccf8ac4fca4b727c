package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("creates text logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: "info", Format: LogFormatText, Output: &buf})

		logger.Info("test message", "key", "value")

		assert.Contains(t, buf.String(), "test message")
		assert.Contains(t, buf.String(), "key=value")
	})

	t.Run("creates JSON logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: "info", Format: "JSON", Output: &buf, Service: "priora-test"})

		logger.Info("test message", "key", "value")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "test message", entry["msg"])
		assert.Equal(t, "value", entry["key"])
		assert.Equal(t, "priora-test", entry["service"])
	})

	t.Run("respects log level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: "warn", Output: &buf})

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})
}

func TestNewLogger_ContextIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "info", Format: LogFormatJSON, Output: &buf})

	ctx := WithCorrelationID(context.Background(), "corr-123")
	ctx = WithRequestID(ctx, "req-456")
	ctx = WithOperation(ctx, "analyze")
	logger.With("component", "cli").InfoContext(ctx, "test with context")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-123", entry[CorrelationIDKey])
	assert.Equal(t, "req-456", entry[RequestIDKey])
	assert.Equal(t, "analyze", entry[OperationKey])
	assert.Equal(t, "cli", entry["component"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestDefaultLogConfig(t *testing.T) {
	cfg := DefaultLogConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, LogFormatText, cfg.Format)
	assert.Equal(t, "priora", cfg.Service)
}

func TestContextHelpers(t *testing.T) {
	t.Run("generates ids when empty", func(t *testing.T) {
		ctx := WithCorrelationID(context.Background(), "")
		ctx = WithRequestID(ctx, "")

		assert.Len(t, CorrelationIDFromContext(ctx), 36)
		assert.Len(t, RequestIDFromContext(ctx), 36)
	})

	t.Run("request context keeps parent correlation", func(t *testing.T) {
		ctx := NewRequestContext(context.Background(), "parent")

		assert.Equal(t, "parent", CorrelationIDFromContext(ctx))
		assert.NotEmpty(t, RequestIDFromContext(ctx))
	})

	t.Run("setters keep the rest of the scope", func(t *testing.T) {
		ctx := WithScope(context.Background(), Scope{CorrelationID: "c", RequestID: "r"})
		ctx = WithOperation(ctx, "export")

		assert.Equal(t, Scope{CorrelationID: "c", RequestID: "r", Operation: "export"}, ScopeFrom(ctx))
	})

	t.Run("empty context", func(t *testing.T) {
		ctx := context.Background()

		assert.Empty(t, CorrelationIDFromContext(ctx))
		assert.Empty(t, RequestIDFromContext(ctx))
		assert.Equal(t, Scope{}, ScopeFrom(ctx))
	})
}
