package dataprocessing

import (
	"log/slog"
	"strings"

	"salesreport/internal/config"
	"salesreport/pkg/contracts/domain"
)

// Loader reads persisted cleaned or combined datasets back into memory
type Loader struct {
	reader *Reader
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger uses slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{reader: NewReader(logger), logger: logger}
}

// LoadDataset reads a dataset written by the pipeline. Rows are not filtered
// again. Records without a data_source value take the source name of the file
// with any "_clean" suffix removed.
func (l *Loader) LoadDataset(path string) (*domain.Dataset, error) {
	table, err := l.reader.ReadTable(path, "", ReadOptions{Encoding: EncodingUTF8})
	if err != nil {
		return nil, err
	}

	fallback := strings.TrimSuffix(table.Source, strings.TrimSuffix(config.CleanedFileSuffix, ".csv"))
	layout := newColumnLayout(table.Columns)
	derived := layout.invoiceDate >= 0

	ds := domain.NewDataset(table.Columns...)
	ds.Records = make([]domain.SalesRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := decodeRow(layout, row).record
		if derived {
			// Date parts are recomputed from invoice_date
			for _, part := range domain.DatePartFields {
				delete(rec.Extra, part)
			}
		}
		if rec.DataSource == "" {
			rec.DataSource = fallback
		}
		ds.Records = append(ds.Records, rec)
	}
	ds.AddColumn(domain.FieldDataSource)

	l.logger.Info("Dataset loaded",
		slog.String("path", path),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(ds.Columns)))

	return ds, nil
}
