package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "SHILLER"

// Config represents the complete generator configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Columns   ColumnsConfig   `yaml:"columns" envconfig:"COLUMNS"`
	Transcode TranscodeConfig `yaml:"transcode" envconfig:"TRANSCODE"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// PathsConfig contains file system paths. Relative values are resolved by ResolvePaths.
type PathsConfig struct {
	Root       string `yaml:"root" envconfig:"ROOT"`
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	InputFile  string `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`
	OutputFile string `yaml:"output_file" envconfig:"OUTPUT_FILE" validate:"required"`
}

// ColumnsConfig names the header columns read from the source file.
type ColumnsConfig struct {
	Date     string `yaml:"date" envconfig:"DATE" validate:"required"`
	Price    string `yaml:"price" envconfig:"PRICE" validate:"required"`
	Dividend string `yaml:"dividend" envconfig:"DIVIDEND" validate:"required"`
	BondRate string `yaml:"bond_rate" envconfig:"BOND_RATE" validate:"required"`
}

// TranscodeConfig controls record selection and console output.
type TranscodeConfig struct {
	MinYear   int    `yaml:"min_year" envconfig:"MIN_YEAR" validate:"gte=1800,lte=9999"`
	Summarize bool   `yaml:"summarize" envconfig:"SUMMARIZE"`
	Sheet     string `yaml:"sheet" envconfig:"SHEET" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=none prometheus"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE" validate:"required_if=MetricExporter prometheus"`
}

// Load builds the configuration from defaults, the first config file found in the
// working directory, and the environment.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the file layer.
func LoadFile(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable keep their current value.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints declared in the struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"shiller.yaml",
		filepath.Join("configs", "shiller.yaml"),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:    filepath.Join("src", "lib", "calc", "data"),
			InputFile:  "ie-dividends-data.csv",
			OutputFile: "shiller-historical-yield-data.ts",
		},
		Columns: ColumnsConfig{
			Date:     "Date",
			Price:    "S&P Comp. P",
			Dividend: "Dividend D",
			BondRate: "Long Interest Rate GS10",
		},
		Transcode: TranscodeConfig{
			MinYear:   1928,
			Summarize: true,
			Sheet:     "Data",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: filepath.Join("logs", "shiller-yields.log"),
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "none",
		},
	}
}
