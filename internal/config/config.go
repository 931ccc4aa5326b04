package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Sources   SourcesConfig   `yaml:"sources" envconfig:"SOURCES"`
	Cleaning  CleaningConfig  `yaml:"cleaning" envconfig:"CLEANING"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system locations. Relative entries are resolved
// against BaseDir, and an empty BaseDir means the working directory.
type PathsConfig struct {
	BaseDir           string `yaml:"base_dir" envconfig:"BASE_DIR"`
	RawDir            string `yaml:"raw_dir" envconfig:"RAW_DIR" validate:"required"`
	CleanedDir        string `yaml:"cleaned_dir" envconfig:"CLEANED_DIR" validate:"required"`
	ReportsDir        string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	VisualizationsDir string `yaml:"visualizations_dir" envconfig:"VISUALIZATIONS_DIR" validate:"required"`
	LogsDir           string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// SourcesConfig controls raw input discovery
type SourcesConfig struct {
	Patterns []string `yaml:"patterns" envconfig:"PATTERNS" validate:"min=1,dive,required"`
}

// CleaningConfig controls the row filter
type CleaningConfig struct {
	// DatePolicy decides what happens to rows whose invoice_date cannot be parsed
	DatePolicy        string `yaml:"date_policy" envconfig:"DATE_POLICY" validate:"oneof=null drop"`
	RequireCustomerID bool   `yaml:"require_customer_id" envconfig:"REQUIRE_CUSTOMER_ID"`
	DeriveDateParts   bool   `yaml:"derive_date_parts" envconfig:"DERIVE_DATE_PARTS"`
}

// OutputConfig controls report generation
type OutputConfig struct {
	TopN         int    `yaml:"top_n" envconfig:"TOP_N" validate:"min=1,max=1000"`
	Charts       bool   `yaml:"charts" envconfig:"CHARTS"`
	SQLitePath   string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	SQLiteTable  string `yaml:"sqlite_table" envconfig:"SQLITE_TABLE" validate:"omitempty,alphanum"`
	BOMPrefix    bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
	WriteCleaned bool   `yaml:"write_cleaned" envconfig:"WRITE_CLEANED"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	TraceFile      string `yaml:"trace_file" envconfig:"TRACE_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence. An empty
// configFile searches the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are set override the file values
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML configuration onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate normalizes and validates the configuration
func (c *Config) Validate() error {
	// JSON is the only supported log format
	c.Logging.Format = DefaultLogFormat
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
	if c.Telemetry.MetricsFile == "" {
		c.Telemetry.MetricsFile = DefaultMetricsFile
	}
	if c.Telemetry.TraceFile == "" {
		c.Telemetry.TraceFile = DefaultTraceFile
	}
	if c.Output.SQLiteTable == "" {
		c.Output.SQLiteTable = DefaultSQLiteTableName
	}

	return validator.New().Struct(c)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"salesreport.yaml",
		"config.yaml",
		filepath.Join("configs", "config.yaml"),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "both",
			FilePath: DefaultLogFile,
		},
		Paths: PathsConfig{
			RawDir:            DefaultRawDir,
			CleanedDir:        DefaultCleanedDir,
			ReportsDir:        DefaultReportsDir,
			VisualizationsDir: DefaultVisualizationsDir,
			LogsDir:           DefaultLogsDir,
		},
		Sources: SourcesConfig{
			Patterns: append([]string(nil), DefaultSourcePatterns...),
		},
		Cleaning: CleaningConfig{
			DatePolicy:      DatePolicyNull,
			DeriveDateParts: true,
		},
		Output: OutputConfig{
			TopN:         DefaultTopN,
			Charts:       true,
			SQLiteTable:  DefaultSQLiteTableName,
			WriteCleaned: true,
		},
		Telemetry: TelemetryConfig{
			MetricExporter: "prometheus",
			TraceExporter:  "none",
			MetricsFile:    DefaultMetricsFile,
			TraceFile:      DefaultTraceFile,
		},
	}
}
