package dataprocessing

import (
	"context"
	"log/slog"
)

const (
	// December is the month whose observation stands for its year.
	December = 12

	// DefaultMinYear is the first year of the generated series.
	DefaultMinYear = 1928
)

// SelectAnnual keeps the December observation of every year from minYear on and derives
// its yields. Output follows input order. When a year has more than one December row the
// last one wins, keeping the position of the first, and a warning is logged.
func SelectAnnual(ctx context.Context, rows []ParsedObservation, minYear int, logger *slog.Logger) []AnnualRecord {
	if logger == nil {
		logger = slog.Default()
	}

	records := make([]AnnualRecord, 0, len(rows)/12+1)
	position := make(map[int]int)

	for _, row := range rows {
		if row.Month != December || row.Year < minYear {
			continue
		}

		stock, bond := DeriveYields(row.RawObservation)
		record := AnnualRecord{Year: row.Year, StockYield: stock, BondYield: bond}

		if idx, seen := position[row.Year]; seen {
			logger.WarnContext(ctx, "Duplicate December row, keeping the later one",
				slog.Int("year", row.Year),
				slog.Int("line", row.Line))
			records[idx] = record
			continue
		}

		position[row.Year] = len(records)
		records = append(records, record)
	}

	return records
}
