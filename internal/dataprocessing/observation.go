package dataprocessing

import "math"

// Missing is the sentinel stored for numeric cells that could not be coerced.
var Missing = math.NaN()

// IsMissing reports whether v is the missing-value sentinel
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// RawObservation is one dated row of the source file
type RawObservation struct {
	Line         int // 1-based row number in the source, header included
	Date         string
	Price        float64
	Dividend     float64
	BondRateGS10 float64 // percent
}

// ParsedObservation is a RawObservation with its date split into year and month.
// Month is 0 when the date carries no month part.
type ParsedObservation struct {
	RawObservation
	Year  int
	Month int
}

// AnnualRecord is one year of the generated series. Yields are fractions kept at full
// precision; rounding happens only when they are written out.
type AnnualRecord struct {
	Year       int
	StockYield float64
	BondYield  float64
}

// Columns names the source header columns
type Columns struct {
	Date     string
	Price    string
	Dividend string
	BondRate string
}

func (c Columns) required() []string {
	return []string{c.Date, c.Price, c.Dividend, c.BondRate}
}
