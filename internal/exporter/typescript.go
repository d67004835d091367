package exporter

import (
	"bytes"
	"context"
	"log/slog"
	"text/template"

	"shillergen/internal/dataprocessing"
	apperrors "shillergen/internal/errors"
	"shillergen/internal/files"
)

const (
	InterfaceName = "ShillerHistoricalYearData"
	ConstName     = "shillerHistoricalData"
)

var moduleTemplate = template.Must(template.New("shiller.ts").Funcs(template.FuncMap{
	"year":  formatYear,
	"yield": formatYield,
}).Parse(`// AUTO-GENERATED FILE. DO NOT EDIT.
//
// Annual U.S. stock and bond yields derived from Robert Shiller's monthly market data
// (http://www.econ.yale.edu/~shiller/data.htm).
//
// Source: {{.Source}}
// Regenerate with: go run ./cmd/shiller-yields
//
// One entry per year from {{.MinYear}}, taken from the December observation:
//   year        calendar year
//   stockYield  S&P Composite dividend yield, Dividend D / S&P Comp. P, as a fraction
//   bondYield   10-year Treasury yield, Long Interest Rate GS10 / 100, as a fraction
// Values are rounded to {{.Places}} decimal places. NaN marks a value missing from the source.

export interface {{.Interface}} {
  year: number;
  stockYield: number;
  bondYield: number;
}

export const {{.Const}}: {{.Interface}}[] = [
{{- range .Records}}
  { year: {{year .Year}}, stockYield: {{yield .StockYield}}, bondYield: {{yield .BondYield}} },
{{- end}}
];
`))

type moduleData struct {
	Source    string
	MinYear   int
	Places    int
	Interface string
	Const     string
	Records   []dataprocessing.AnnualRecord
}

// TypeScriptWriter renders annual records into the generated data module
type TypeScriptWriter struct {
	files   *files.Manager
	source  string
	minYear int
	logger  *slog.Logger
}

// NewTypeScriptWriter creates a writer. source is the root-relative input path named in
// the file header.
func NewTypeScriptWriter(manager *files.Manager, source string, minYear int, logger *slog.Logger) *TypeScriptWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypeScriptWriter{
		files:   manager,
		source:  source,
		minYear: minYear,
		logger:  logger,
	}
}

// Render returns the generated module for records
func (w *TypeScriptWriter) Render(records []dataprocessing.AnnualRecord) ([]byte, error) {
	var buf bytes.Buffer
	err := moduleTemplate.Execute(&buf, moduleData{
		Source:    w.source,
		MinYear:   w.minYear,
		Places:    YieldPlaces,
		Interface: InterfaceName,
		Const:     ConstName,
		Records:   records,
	})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeStorage, "failed to render TypeScript module", err)
	}
	return buf.Bytes(), nil
}

// Emit overwrites path with the generated module
func (w *TypeScriptWriter) Emit(ctx context.Context, records []dataprocessing.AnnualRecord, path string) error {
	content, err := w.Render(records)
	if err != nil {
		return err
	}

	overwrote, err := w.files.WriteFile(path, content)
	if err != nil {
		return apperrors.NewStorageError("failed to write "+path, err)
	}

	w.logger.InfoContext(ctx, "TypeScript module written",
		slog.String("file", path),
		slog.Int("records", len(records)),
		slog.Int("bytes", len(content)),
		slog.Bool("overwrote", overwrote))
	return nil
}
