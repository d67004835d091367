// Package exporter writes the annual yield series as a generated TypeScript module.
//
// The generated file holds a provenance comment, the ShillerHistoricalYearData
// interface and the shillerHistoricalData array, one record per line:
//
//	{ year: 1953, stockYield: 0.0343, bondYield: 0.0307 },
//
// Yields are rounded to four decimal places at write time only. Missing values are
// written as NaN and infinities as Infinity, all valid TypeScript numbers. The output
// carries no timestamp or absolute path, so regenerating from the same input gives
// the same bytes.
package exporter
