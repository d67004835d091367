package dataprocessing

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "shillergen/internal/errors"
	"shillergen/internal/validation"
)

// DefaultSheet is the worksheet Shiller's workbook keeps the monthly series on.
const DefaultSheet = "Data"

// LoadStats counts what the loader saw and what it absorbed
type LoadStats struct {
	RowsRead     int // data rows after the header
	RowsDropped  int // rows without a date
	CellsMissing int // numeric cells coerced to Missing in kept rows
}

// LoadResult is the output of Loader.Load
type LoadResult struct {
	Observations []RawObservation
	Format       validation.Format
	Stats        LoadStats
}

// Loader reads Shiller's monthly series from a delimited text file or a workbook.
type Loader struct {
	columns   Columns
	sheet     string
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewLoader creates a loader for the given header names
func NewLoader(columns Columns, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		columns:   columns,
		sheet:     DefaultSheet,
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// WithSheet sets the worksheet read from workbook inputs
func (l *Loader) WithSheet(sheet string) *Loader {
	if sheet != "" {
		l.sheet = sheet
	}
	return l
}

// Load reads every dated row of path in file order.
func Load(ctx context.Context, path string, columns Columns) ([]RawObservation, error) {
	result, err := NewLoader(columns, nil).Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return result.Observations, nil
}

// Load reads path, locating the configured columns by header name. Rows whose date is
// empty or a missing-value placeholder such as NA are dropped; numeric cells that fail
// to parse become Missing.
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	format, err := l.validator.ValidateInputFile(path)
	if err != nil {
		return nil, err
	}

	var rows rowSource
	switch format {
	case validation.FormatXLSX:
		rows, err = l.workbookRows(path)
	default:
		rows, err = l.csvRows(path)
	}
	if err != nil {
		return nil, err
	}

	result := &LoadResult{Format: format}
	if err := l.collect(ctx, rows, result); err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Source file loaded",
		slog.String("file", path),
		slog.String("format", string(format)),
		slog.Int("rows_read", result.Stats.RowsRead),
		slog.Int("rows_dropped", result.Stats.RowsDropped),
		slog.Int("cells_missing", result.Stats.CellsMissing),
		slog.Int("observations", len(result.Observations)))

	return result, nil
}

// rowSource yields the header and then each data row with its 1-based line number.
type rowSource struct {
	header []string
	next   func() (row []string, line int, err error)
}

func (l *Loader) collect(ctx context.Context, rows rowSource, result *LoadResult) error {
	cols := l.columns
	indices, err := validation.ValidateHeader(rows.header, cols.required()...)
	if err != nil {
		return err
	}
	dateIdx := indices[cols.Date]

	for {
		row, line, err := rows.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return apperrors.NewParsingError(fmt.Sprintf("failed to read row %d", line), err).
				WithContext("line", line)
		}
		result.Stats.RowsRead++

		date := cell(row, dateIdx)
		if isMissingToken(date) {
			result.Stats.RowsDropped++
			l.logger.DebugContext(ctx, "Dropping row without date", slog.Int("line", line))
			continue
		}

		obs := RawObservation{Line: line, Date: date}
		for _, field := range []struct {
			name string
			dst  *float64
		}{
			{cols.Price, &obs.Price},
			{cols.Dividend, &obs.Dividend},
			{cols.BondRate, &obs.BondRateGS10},
		} {
			raw := cell(row, indices[field.name])
			value, ok := parseNumber(raw)
			if !ok {
				result.Stats.CellsMissing++
				l.logger.DebugContext(ctx, "Numeric cell coerced to missing",
					slog.Int("line", line),
					slog.String("column", field.name),
					slog.String("value", raw))
			}
			*field.dst = value
		}
		result.Observations = append(result.Observations, obs)
	}
}

func (l *Loader) csvRows(path string) (rowSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rowSource{}, apperrors.NewStorageError("failed to read "+path, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return rowSource{}, apperrors.NewValidationError(path + " is empty, expected a header row")
	}
	if err != nil {
		return rowSource{}, apperrors.NewParsingError("failed to read header of "+path, err)
	}

	return rowSource{
		header: header,
		next: func() ([]string, int, error) {
			row, err := reader.Read()
			if err != nil {
				var parseErr *csv.ParseError
				if errors.As(err, &parseErr) {
					return nil, parseErr.Line, err
				}
				return nil, 0, err
			}
			line, _ := reader.FieldPos(0)
			return row, line, nil
		},
	}, nil
}

func (l *Loader) workbookRows(path string) (rowSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return rowSource{}, apperrors.NewParsingError("failed to open workbook "+path, err)
	}
	defer f.Close()

	if idx, _ := f.GetSheetIndex(l.sheet); idx < 0 {
		return rowSource{}, apperrors.NewValidationError(fmt.Sprintf("sheet %q not found in %s", l.sheet, path)).
			WithContext("sheets", strings.Join(f.GetSheetList(), ","))
	}

	rows, err := f.GetRows(l.sheet)
	if err != nil {
		return rowSource{}, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", l.sheet), err)
	}

	// The workbook opens with title and notes rows; the header is the first row that
	// carries every required column.
	headerRow := -1
	for i, row := range rows {
		if _, err := validation.ValidateHeader(row, l.columns.required()...); err == nil {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		return rowSource{}, apperrors.NewValidationError(
			fmt.Sprintf("no header row with columns %s in sheet %q", strings.Join(l.columns.required(), ", "), l.sheet))
	}

	l.logger.Debug("Found header row in workbook",
		slog.String("sheet", l.sheet),
		slog.Int("row_number", headerRow+1),
		slog.Int("total_rows", len(rows)))

	pos := headerRow + 1
	return rowSource{
		header: rows[headerRow],
		next: func() ([]string, int, error) {
			if pos >= len(rows) {
				return nil, pos + 1, io.EOF
			}
			row := rows[pos]
			pos++
			return row, pos, nil
		},
	}, nil
}

// missingTokens are the placeholders spreadsheet exports use for an absent value.
var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "#N/A": {}, "#NA": {}, "<NA>": {},
	"NaN": {}, "nan": {}, "-NaN": {}, "-nan": {}, "NULL": {}, "null": {}, "None": {},
}

func isMissingToken(raw string) bool {
	_, ok := missingTokens[raw]
	return ok
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber coerces a trimmed cell. Anything that is not a float is Missing.
func parseNumber(raw string) (float64, bool) {
	if raw == "" {
		return Missing, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Missing, false
	}
	return value, true
}
