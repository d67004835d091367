// Package config loads the generator configuration and resolves the data file paths.
//
// # Configuration Sources
//
// Values are applied in the following order, later sources winning:
//
//	1. Built-in defaults (Default)
//	2. An optional YAML file (shiller.yaml or configs/shiller.yaml under the working directory)
//	3. Environment variables with the SHILLER_ prefix
//
// # Environment Variables
//
//	SHILLER_PATHS_ROOT=/srv/app
//	SHILLER_PATHS_DATA_DIR=src/lib/calc/data
//	SHILLER_TRANSCODE_MIN_YEAR=1928
//	SHILLER_LOGGING_LEVEL=debug
//	SHILLER_TELEMETRY_METRIC_EXPORTER=prometheus
//
// With no file and no environment the defaults reproduce the fixed layout the web
// application imports from: src/lib/calc/data/ie-dividends-data.csv in,
// src/lib/calc/data/shiller-historical-yield-data.ts out.
//
// # Path Management
//
// ResolvePaths turns the relative PathsConfig into absolute paths anchored at the
// project root, keeping root-relative forms for anything written into generated files:
//
//	paths, err := config.ResolvePaths(cfg.Paths)
//	input := paths.InputFile
//	header := paths.InputRel // "src/lib/calc/data/ie-dividends-data.csv"
package config
