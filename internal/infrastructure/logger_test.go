package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"shillergen/internal/config"
)

func decodeLines(t *testing.T, content []byte) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "log line is not JSON: %s", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestInitializeLogger_File(t *testing.T) {
	defer CloseLogFile()

	logFile := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entries := decodeLines(t, content)
	require.Len(t, entries, 1)
	assert.Equal(t, "test message", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Contains(t, entries[0], "source")
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{level: "debug", wantDebug: true, wantInfo: true, wantWarn: true},
		{level: "info", wantInfo: true, wantWarn: true},
		{level: "warning", wantWarn: true},
		{level: "error"},
		{level: "bogus", wantInfo: true, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level)

			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, `"msg":"d"`))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, `"msg":"i"`))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, `"msg":"w"`))
		})
	}
}

func TestRunHandler_InjectsIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug").With("component", "test")

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())

	ctx := WithRunID(context.Background(), "run-123")
	ctx, span := tp.Tracer("test").Start(ctx, "op")
	logger.InfoContext(ctx, "with ids")
	span.End()

	logger.Info("without ids")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 2)

	assert.Equal(t, "run-123", entries[0]["run_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[0]["trace_id"])
	assert.Equal(t, "test", entries[0]["component"])

	assert.NotContains(t, entries[1], "run_id")
	assert.NotContains(t, entries[1], "trace_id")
}

func TestRunIDHelpers(t *testing.T) {
	ctx := EnsureRunID(context.Background())
	runID := GetRunID(ctx)
	assert.Len(t, runID, 36)

	assert.Equal(t, runID, GetRunID(EnsureRunID(ctx)), "existing run ID must be kept")
	assert.NotEqual(t, runID, GenerateRunID())
	assert.Empty(t, GetRunID(context.Background()))
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	WithComponent(NewLogger(&buf, "info"), "loader").Info("hello")

	entries := decodeLines(t, buf.Bytes())
	require.Len(t, entries, 1)
	assert.Equal(t, "loader", entries[0]["component"])
}
