package exporter

import (
	"fmt"
	"log/slog"
	"time"

	"salesreport/internal/config"
	"salesreport/internal/dataprocessing"
	"salesreport/pkg/contracts/domain"
)

// DatasetWriter persists cleaned and combined datasets as UTF-8 CSV.
// Null values are written as empty cells and columns follow Dataset.Columns.
type DatasetWriter struct {
	csv    *CSVWriter
	paths  *config.Paths
	bom    bool
	logger *slog.Logger
}

// NewDatasetWriter creates a dataset writer. When bom is set every file
// starts with a UTF-8 byte order mark.
func NewDatasetWriter(paths *config.Paths, bom bool, logger *slog.Logger) *DatasetWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetWriter{
		csv:    NewCSVWriter(paths, logger),
		paths:  paths,
		bom:    bom,
		logger: logger,
	}
}

// WriteDataset streams ds to path and returns the resolved path together with
// the number of data rows written.
func (w *DatasetWriter) WriteDataset(path string, ds *domain.Dataset) (string, int, error) {
	if ds == nil {
		return "", 0, fmt.Errorf("no dataset to write to %s", path)
	}

	stream, err := w.csv.CreateStreamWriter(path, ds.Columns, w.bom)
	if err != nil {
		return "", 0, err
	}

	row := make([]string, len(ds.Columns))
	for i := range ds.Records {
		rec := &ds.Records[i]
		for j, col := range ds.Columns {
			v, _ := dataprocessing.FieldValue(rec, col)
			row[j] = v
		}
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return "", 0, fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := stream.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to close %s: %w", stream.Path(), err)
	}

	w.logger.Info("Dataset written",
		slog.String("path", stream.Path()),
		slog.Int("rows", stream.Written()),
		slog.Int("columns", len(ds.Columns)))

	return stream.Path(), stream.Written(), nil
}

// WriteCleaned writes a cleaned single-source dataset to <cleaned>/<source>_clean.csv.
func (w *DatasetWriter) WriteCleaned(source string, ds *domain.Dataset) (string, int, error) {
	return w.WriteDataset(w.paths.GetCleanedSourcePath(source), ds)
}

// WriteCombined writes the merged dataset under a name stamped with now.
func (w *DatasetWriter) WriteCombined(ds *domain.Dataset, now time.Time) (string, int, error) {
	return w.WriteDataset(w.paths.GetCombinedPath(now), ds)
}
