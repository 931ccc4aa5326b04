package config

import "salesreport/pkg/contracts"

// Application constants for the sales report pipeline
const (
	// Application Info
	AppName    = "salesreport"
	AppVersion = contracts.Version

	// Environment variable prefix (SALES_LOGGING_LEVEL, SALES_PATHS_RAW_DIR, ...)
	EnvPrefix = "SALES"

	// Directory layout (relative to the base directory)
	DefaultRawDir            = "data/raw"
	DefaultCleanedDir        = "data/cleaned"
	DefaultReportsDir        = "reports"
	DefaultVisualizationsDir = "visualizations"
	DefaultLogsDir           = "logs"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "salesreport.log"

	// Telemetry output
	DefaultMetricsFile = "metrics.prom"
	DefaultTraceFile   = "trace.json"

	// Output file naming
	CleanedFileSuffix      = "_clean.csv"
	CombinedFilePrefix     = "combined_sales_data_"
	CombinedFilePattern    = "combined_sales_data_*.csv"
	CombinedTimestampFmt   = "20060102_150405"
	RunManifestFile        = "run_manifest.json"
	DefaultSQLiteTableName = "sales"

	// Report tables
	BasicStatisticsCSV = "basic_statistics.csv"
	MonthlySalesCSV    = "monthly_sales.csv"
	DailySalesCSV      = "daily_sales.csv"
	TopProductsCSV     = "top_products.csv"
	CountrySalesCSV    = "country_sales.csv"

	// Charts
	MonthlySalesChart = "monthly_sales_trend.png"
	DailySalesChart   = "sales_by_day.png"
	TopProductsChart  = "top_products.png"
	TopCountriesChart = "top_countries.png"

	// Aggregation
	DefaultTopN = 10
)

// DefaultSourcePatterns are the glob patterns used to discover raw inputs.
var DefaultSourcePatterns = []string{"*retail*.csv", "*retail*.xlsx", "*commerce*.csv"}

// Date failure policies
const (
	DatePolicyNull = "null"
	DatePolicyDrop = "drop"
)
