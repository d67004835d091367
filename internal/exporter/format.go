package exporter

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// YieldPlaces is the number of decimal places written for each yield.
const YieldPlaces = 4

// formatYield renders a yield fraction as a TypeScript number literal
func formatYield(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return decimal.NewFromFloat(v).StringFixed(YieldPlaces)
}

// formatYear formats a year for output
func formatYear(year int) string {
	return strconv.Itoa(year)
}
