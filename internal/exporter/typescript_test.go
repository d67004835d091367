package exporter

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shillergen/internal/config"
	"shillergen/internal/dataprocessing"
	"shillergen/internal/files"
	"shillergen/internal/shared/testutil"
)

func newTestWriter(t *testing.T, dataDir string) *TypeScriptWriter {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	manager := files.NewManager(&config.Paths{Root: dataDir, DataDir: dataDir}).WithLogger(logger)
	return NewTypeScriptWriter(manager, "src/lib/calc/data/ie-dividends-data.csv", 1928, logger)
}

func TestTypeScriptWriter_Render(t *testing.T) {
	writer := newTestWriter(t, t.TempDir())

	content, err := writer.Render([]dataprocessing.AnnualRecord{
		{Year: 1928, StockYield: 0.88 / 24.35, BondYield: 0.0338},
		{Year: 1953, StockYield: 0.85 / 24.81, BondYield: 3.07 / 100},
		{Year: 1954, StockYield: math.NaN(), BondYield: 0.0261},
	})
	require.NoError(t, err)

	text := string(content)
	assert.True(t, strings.HasPrefix(text, "// AUTO-GENERATED FILE. DO NOT EDIT.\n"))
	assert.Contains(t, text, "// Source: src/lib/calc/data/ie-dividends-data.csv\n")
	assert.Contains(t, text, "export interface ShillerHistoricalYearData {\n  year: number;\n  stockYield: number;\n  bondYield: number;\n}\n")
	assert.True(t, strings.HasSuffix(text, strings.Join([]string{
		"export const shillerHistoricalData: ShillerHistoricalYearData[] = [",
		"  { year: 1928, stockYield: 0.0361, bondYield: 0.0338 },",
		"  { year: 1953, stockYield: 0.0343, bondYield: 0.0307 },",
		"  { year: 1954, stockYield: NaN, bondYield: 0.0261 },",
		"];",
		"",
	}, "\n")), text)

	interfaceAt := strings.Index(text, "export interface")
	constAt := strings.Index(text, "export const")
	assert.Less(t, strings.Index(text, "AUTO-GENERATED"), interfaceAt)
	assert.Less(t, interfaceAt, constAt)
}

func TestTypeScriptWriter_RenderEmpty(t *testing.T) {
	writer := newTestWriter(t, t.TempDir())

	content, err := writer.Render(nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(content), "ShillerHistoricalYearData[] = [\n];\n"))
}

func TestTypeScriptWriter_EmitOverwritesIdentically(t *testing.T) {
	dataDir := t.TempDir()
	writer := newTestWriter(t, dataDir)
	output := filepath.Join(dataDir, "nested", "shiller-historical-yield-data.ts")
	records := []dataprocessing.AnnualRecord{
		{Year: 1928, StockYield: 0.0361, BondYield: 0.0338},
		{Year: 1929, StockYield: 0.0452, BondYield: 0.0333},
	}

	require.NoError(t, os.MkdirAll(filepath.Dir(output), 0755))
	require.NoError(t, os.WriteFile(output, []byte("stale hand edits"), 0644))

	require.NoError(t, writer.Emit(context.Background(), records, output))
	first, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.NotContains(t, string(first), "stale")

	require.NoError(t, writer.Emit(context.Background(), records, output))
	second, err := os.ReadFile(output)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotContains(t, string(first), dataDir, "absolute paths must not leak into the output")
}

func TestTypeScriptWriter_EmitRelativePath(t *testing.T) {
	dataDir := t.TempDir()
	writer := newTestWriter(t, dataDir)

	require.NoError(t, writer.Emit(context.Background(), nil, "out.ts"))
	assert.FileExists(t, filepath.Join(dataDir, "out.ts"))
}

func TestTypeScriptWriter_EmitFailure(t *testing.T) {
	dataDir := t.TempDir()
	blocker := filepath.Join(dataDir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	writer := newTestWriter(t, dataDir)
	err := writer.Emit(context.Background(), nil, filepath.Join(blocker, "out.ts"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE")
}
