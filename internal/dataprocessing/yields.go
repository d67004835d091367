package dataprocessing

import (
	"errors"

	apperrors "shillergen/internal/errors"
)

// DeriveYields computes the annualised dividend yield and the 10-year Treasury yield
// as fractions. Shiller's dividend column is already an annual rate, so the stock yield
// is Dividend / Price. Missing inputs give Missing outputs and a zero price is passed
// through to IEEE division.
func DeriveYields(obs RawObservation) (stockYield, bondYield float64) {
	return obs.Dividend / obs.Price, obs.BondRateGS10 / 100
}

// ParseObservations attaches year and month to every observation. The first
// malformed date aborts the run.
func ParseObservations(raw []RawObservation) ([]ParsedObservation, error) {
	parsed := make([]ParsedObservation, 0, len(raw))
	for _, obs := range raw {
		year, month, err := ParseDate(obs.Date)
		if err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				appErr.WithContext("line", obs.Line)
			}
			return nil, err
		}
		parsed = append(parsed, ParsedObservation{RawObservation: obs, Year: year, Month: month})
	}
	return parsed, nil
}
