// Package exporter persists pipeline output.
//
// This package contains four components:
//
// CSVWriter: Core CSV writing with headers, appends, streaming and an optional
// UTF-8 BOM for Excel. Relative paths land in the reports directory unless
// they start with "cleaned/".
//
// DatasetWriter: Streams cleaned and combined datasets, writing nulls as
// empty cells.
//
// ReportWriter: Writes the tables produced by the analytics package.
//
// SQLiteExporter: Appends the merged dataset to a SQLite table, one batch of
// rows per run.
//
// Example usage:
//
//	writer := exporter.NewDatasetWriter(paths, false, logger)
//	path, rows, err := writer.WriteCombined(merged, time.Now())
package exporter
