package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestNewLogger(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatText, Output: &buf})

		logger.Info("habit created", "name", "Read")

		assert.Contains(t, buf.String(), "habit created")
		assert.Contains(t, buf.String(), "name=Read")
	})

	t.Run("json format with service attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{
			Level:          LogLevelInfo,
			Format:         LogFormatJSON,
			Output:         &buf,
			ServiceName:    "cadence-worker",
			ServiceVersion: "1.2.3",
		})

		logger.Info("started")

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "started", entries[0]["msg"])
		assert.Equal(t, "cadence-worker", entries[0]["service"])
		assert.Equal(t, "1.2.3", entries[0]["version"])
	})

	t.Run("level filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelWarn, Format: LogFormatJSON, Output: &buf})

		logger.Info("dropped")
		logger.Warn("kept")

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "kept", entries[0]["msg"])
	})

	t.Run("context IDs survive With", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Format: LogFormatJSON, Output: &buf}).With("component", "outbox")

		ctx := WithRequestID(WithCorrelationID(context.Background(), "corr-123"), "req-456")
		logger.InfoContext(ctx, "batch processed")

		entries := decodeLines(t, &buf)
		require.Len(t, entries, 1)
		assert.Equal(t, "corr-123", entries[0][CorrelationIDKey])
		assert.Equal(t, "req-456", entries[0][RequestIDKey])
		assert.Equal(t, "outbox", entries[0]["component"])
	})
}

func TestLogConfigFor(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		level      string
		format     string
		wantLevel  LogLevel
		wantFormat LogFormat
		wantSource bool
	}{
		{"development defaults", "development", "", "", LogLevelInfo, LogFormatText, false},
		{"production defaults", "production", "", "", LogLevelInfo, LogFormatJSON, true},
		{"explicit overrides", "production", "DEBUG", "text", LogLevelDebug, LogFormatText, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LogConfigFor(tt.env, tt.level, tt.format, "cadence-mcp")
			assert.Equal(t, tt.wantLevel, cfg.Level)
			assert.Equal(t, tt.wantFormat, cfg.Format)
			assert.Equal(t, tt.wantSource, cfg.AddSource)
			assert.Equal(t, "cadence-mcp", cfg.ServiceName)
		})
	}
}

func TestParseSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseSlogLevel(LogLevelDebug).String())
	assert.Equal(t, "INFO", parseSlogLevel(LogLevelInfo).String())
	assert.Equal(t, "WARN", parseSlogLevel(LogLevelWarn).String())
	assert.Equal(t, "ERROR", parseSlogLevel(LogLevelError).String())
	assert.Equal(t, "INFO", parseSlogLevel("verbose").String())
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, CorrelationIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = NewRequestContext(ctx, "")
	assert.NotEmpty(t, CorrelationIDFromContext(ctx))
	assert.NotEmpty(t, RequestIDFromContext(ctx))

	ctx = NewRequestContext(context.Background(), "upstream")
	assert.Equal(t, "upstream", CorrelationIDFromContext(ctx))
}
