package exporter

import (
	"fmt"
	"log/slog"

	"salesreport/internal/analytics"
	"salesreport/internal/config"
)

// ReportWriter writes analytics tables to the reports directory.
type ReportWriter struct {
	csv *CSVWriter
	bom bool
}

// NewReportWriter creates a report table writer
func NewReportWriter(paths *config.Paths, bom bool, logger *slog.Logger) *ReportWriter {
	return &ReportWriter{csv: NewCSVWriter(paths, logger), bom: bom}
}

// WriteTable writes the table of one artifact and returns the file written.
func (w *ReportWriter) WriteTable(a analytics.Artifact) (string, error) {
	if a.TableFile == "" {
		return "", fmt.Errorf("report %s has no table file", a.Report)
	}
	path, err := w.csv.WriteCSV(a.TableFile, WriteOptions{
		Headers:   a.Table.Header,
		Records:   a.Table.Rows,
		BOMPrefix: w.bom,
	})
	if err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", a.Report, err)
	}
	return path, nil
}
