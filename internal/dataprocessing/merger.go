package dataprocessing

import (
	"log/slog"

	"salesreport/pkg/contracts/domain"
)

// Merger concatenates cleaned datasets
type Merger struct {
	logger *slog.Logger
}

// NewMerger creates a merger. A nil logger uses slog.Default().
func NewMerger(logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{logger: logger}
}

// Merge returns the union of the inputs. Columns are ordered by first
// appearance, records keep input order, and a column absent from an input is
// null for that input's records. Nil inputs are ignored; no inputs yields an
// empty dataset.
func (m *Merger) Merge(datasets ...*domain.Dataset) *domain.Dataset {
	merged := domain.NewDataset()

	total := 0
	inputs := 0
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		inputs++
		total += ds.Len()
		for _, c := range ds.Columns {
			merged.AddColumn(c)
		}
	}

	if inputs == 0 {
		m.logger.Warn("No datasets to merge, returning empty dataset")
		return merged
	}

	merged.AddColumn(domain.FieldDataSource)
	merged.Records = make([]domain.SalesRecord, 0, total)
	for _, ds := range datasets {
		if ds == nil {
			continue
		}
		merged.Records = append(merged.Records, ds.Records...)
	}

	if merged.Len() == 0 {
		m.logger.Warn("Merged dataset is empty", slog.Int("inputs", inputs))
	}

	m.logger.Info("Datasets merged",
		slog.Int("inputs", inputs),
		slog.Int("rows", merged.Len()),
		slog.Int("columns", len(merged.Columns)),
		slog.Any("sources", merged.Sources()))

	return merged
}
