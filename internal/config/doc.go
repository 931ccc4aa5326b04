// Package config provides configuration management for the sales report
// pipeline. It loads settings from multiple sources, validates them, and owns
// the resolution of every file system location the pipeline uses.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_<SECTION>_<FIELD>:
//
//	SALES_LOGGING_LEVEL=debug
//	SALES_PATHS_RAW_DIR=/data/incoming
//	SALES_CLEANING_DATE_POLICY=drop
//	SALES_OUTPUT_SQLITE_PATH=sales.db
//	SALES_SOURCES_PATTERNS=*retail*.csv,*shop*.xlsx
//
// # Path Management
//
// Paths are resolved from an explicit base directory handed in by the caller:
//
//	paths, err := config.NewPaths(baseDir, cfg.Paths)
//	cleaned := paths.GetCleanedSourcePath("online_retail")
//	chart := paths.GetVisualizationPath(config.MonthlySalesChart)
//
// Directory creation is explicit through Paths.EnsureDirectories.
//
// # Validation
//
// Struct tags are checked with go-playground/validator at load time, so an
// unknown date policy or exporter fails before any file is touched.
package config
