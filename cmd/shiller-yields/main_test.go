package main

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

	apperrors "shillergen/internal/errors"
	"shillergen/internal/infrastructure"
	"shillergen/internal/shared/testutil"
)

const dataDir = "src/lib/calc/data"

// setupProject lays out a project root with the Shiller CSV in the data directory and
// points the generator at it through the environment.
func setupProject(t *testing.T, csv string) string {
	t.Helper()

	root := t.TempDir()
	if csv != "" {
		input := filepath.Join(root, dataDir, "ie-dividends-data.csv")
		require.NoError(t, os.MkdirAll(filepath.Dir(input), 0755))
		require.NoError(t, os.WriteFile(input, []byte(csv), 0644))
	}

	t.Setenv("SHILLER_PATHS_ROOT", root)
	t.Setenv("SHILLER_LOGGING_OUTPUT", "file")
	t.Setenv("SHILLER_LOGGING_FILE_PATH", "logs/shiller-yields.log")
	t.Cleanup(func() { infrastructure.CloseLogFile() })
	return root
}

func TestRun_GeneratesTypeScript(t *testing.T) {
	root := setupProject(t, testutil.ShillerCSV)
	output := filepath.Join(root, dataDir, "shiller-historical-yield-data.ts")

	var stdout bytes.Buffer
	require.NoError(t, run(context.Background(), &stdout))

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	text := string(content)

	assert.True(t, strings.HasPrefix(text, "// AUTO-GENERATED FILE. DO NOT EDIT."))
	assert.Contains(t, text, "// Source: src/lib/calc/data/ie-dividends-data.csv\n")
	assert.Contains(t, text, "export interface ShillerHistoricalYearData {")
	assert.True(t, strings.HasSuffix(text, strings.Join([]string{
		"export const shillerHistoricalData: ShillerHistoricalYearData[] = [",
		"  { year: 1928, stockYield: 0.0361, bondYield: 0.0338 },",
		"  { year: 1929, stockYield: 0.0452, bondYield: 0.0333 },",
		"  { year: 1953, stockYield: 0.0343, bondYield: 0.0307 },",
		"  { year: 1954, stockYield: NaN, bondYield: 0.0261 },",
		"];",
		"",
	}, "\n")), text)
	assert.NotContains(t, text, "1927")
	assert.NotContains(t, text, root)

	assert.True(t, strings.HasPrefix(stdout.String(), "Wrote 4 years of data to "+output+"\n"))
	assert.Contains(t, stdout.String(), "Summary over 4 years")
}

func TestRun_Idempotent(t *testing.T) {
	root := setupProject(t, testutil.ShillerCSV)
	output := filepath.Join(root, dataDir, "shiller-historical-yield-data.ts")

	require.NoError(t, run(context.Background(), &bytes.Buffer{}))
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	require.NoError(t, run(context.Background(), &bytes.Buffer{}))
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRun_LogsCarryRunID(t *testing.T) {
	root := setupProject(t, testutil.ShillerCSV)

	require.NoError(t, run(context.Background(), &bytes.Buffer{}))
	require.NoError(t, infrastructure.CloseLogFile())

	content, err := os.ReadFile(filepath.Join(root, "logs", "shiller-yields.log"))
	require.NoError(t, err)

	var runIDs []string
	for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if id, ok := entry["run_id"].(string); ok {
			runIDs = append(runIDs, id)
		}
	}
	require.NotEmpty(t, runIDs)
	for _, id := range runIDs {
		assert.Equal(t, runIDs[0], id)
	}
}

func TestRun_PrometheusTextfile(t *testing.T) {
	root := setupProject(t, testutil.ShillerCSV)
	t.Setenv("SHILLER_TELEMETRY_METRIC_EXPORTER", "prometheus")
	t.Setenv("SHILLER_TELEMETRY_METRICS_FILE", "metrics/shiller.prom")

	require.NoError(t, run(context.Background(), &bytes.Buffer{}))

	content, err := os.ReadFile(filepath.Join(root, "metrics", "shiller.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "shiller_records_emitted_total")
	assert.Contains(t, string(content), "shiller_rows_read_total")
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		root := setupProject(t, "")

		err := run(context.Background(), &bytes.Buffer{})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
		assert.NoFileExists(t, filepath.Join(root, dataDir, "shiller-historical-yield-data.ts"))
	})

	t.Run("missing column", func(t *testing.T) {
		setupProject(t, "Date,S&P Comp. P,Dividend D\n1953.12,24.81,0.85\n")

		err := run(context.Background(), &bytes.Buffer{})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
	})

	t.Run("invalid configuration", func(t *testing.T) {
		setupProject(t, testutil.ShillerCSV)
		t.Setenv("SHILLER_TRANSCODE_MIN_YEAR", "not-a-year")

		err := run(context.Background(), &bytes.Buffer{})
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
	})
}
