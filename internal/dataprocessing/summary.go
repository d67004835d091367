package dataprocessing

import (
	"fmt"
	"io"
	"math"

	apperrors "shillergen/internal/errors"
)

// minSummaryValues is the smallest series a sample standard deviation is defined for.
const minSummaryValues = 2

// SeriesStats describes one yield series at full precision
type SeriesStats struct {
	N      int
	Mean   float64
	StdDev float64 // sample, N-1 denominator
	Min    float64
	Max    float64
}

// SummaryStats is the console summary of a generated series
type SummaryStats struct {
	Records int
	Stock   SeriesStats
	Bond    SeriesStats
}

// Summarize computes mean, sample standard deviation, min and max of the stock and
// bond yields. Missing values are skipped; a series left with fewer than two values
// is an InsufficientData error.
func Summarize(records []AnnualRecord) (SummaryStats, error) {
	stock := make([]float64, 0, len(records))
	bond := make([]float64, 0, len(records))
	for _, r := range records {
		if !IsMissing(r.StockYield) {
			stock = append(stock, r.StockYield)
		}
		if !IsMissing(r.BondYield) {
			bond = append(bond, r.BondYield)
		}
	}

	summary := SummaryStats{Records: len(records)}

	var err error
	if summary.Stock, err = seriesStats("stock yield", stock); err != nil {
		return summary, err
	}
	if summary.Bond, err = seriesStats("bond yield", bond); err != nil {
		return summary, err
	}
	return summary, nil
}

func seriesStats(name string, values []float64) (SeriesStats, error) {
	n := len(values)
	if n < minSummaryValues {
		return SeriesStats{N: n}, apperrors.NewInsufficientDataError(name+" summary", n, minSummaryValues)
	}

	stats := SeriesStats{N: n, Min: values[0], Max: values[0]}
	var sum float64
	for _, v := range values {
		sum += v
		stats.Min = math.Min(stats.Min, v)
		stats.Max = math.Max(stats.Max, v)
	}
	stats.Mean = sum / float64(n)

	var squares float64
	for _, v := range values {
		d := v - stats.Mean
		squares += d * d
	}
	stats.StdDev = math.Sqrt(squares / float64(n-1))

	return stats, nil
}

// Print writes the summary as aligned human-readable lines
func (s SummaryStats) Print(w io.Writer) error {
	lines := []struct {
		label string
		stats SeriesStats
	}{
		{"Stock yield", s.Stock},
		{"Bond yield", s.Bond},
	}

	if _, err := fmt.Fprintf(w, "Summary over %d years\n", s.Records); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "  %-12s n=%-4d mean=%.4f std=%.4f min=%.4f max=%.4f\n",
			line.label+":", line.stats.N, line.stats.Mean, line.stats.StdDev, line.stats.Min, line.stats.Max); err != nil {
			return err
		}
	}
	return nil
}
