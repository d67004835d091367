// Package dataprocessing turns Robert Shiller's monthly market data into the annual
// yield series the web application plots.
//
// # Pipeline
//
// A run is a single linear pass with no retries:
//
//	Load          read the source rows (CSV, or XLSX via excelize)
//	ParseDate     split "YYYY.MM" into year and month
//	DeriveYields  stock yield = Dividend / Price, bond yield = GS10 / 100
//	SelectAnnual  keep one December row per year from MinYear on
//	Emitter       write the generated TypeScript module
//	Summarize     optional mean / sample std / min / max per series
//
// Transcoder.Run wires the stages together with logging, tracing and metrics.
//
// # Missing values
//
// Numeric cells that do not parse become Missing (NaN) instead of failing the run.
// Missing propagates through arithmetic, so a row with no price has a Missing stock
// yield, which the exporter writes as NaN rather than zero. A zero price is not
// special-cased and yields an infinite stock yield.
package dataprocessing
