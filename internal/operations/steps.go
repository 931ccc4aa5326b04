package operations

import (
	"context"
	"fmt"
	"log/slog"

	"salesreport/internal/config"
	"salesreport/internal/dataprocessing"
	apperrors "salesreport/internal/errors"
	"salesreport/internal/infrastructure"
	"salesreport/pkg/contracts/domain"
)

// DiscoverStep finds the raw sources
type DiscoverStep struct {
	BaseStep
	p *Pipeline
}

func newDiscoverStep(p *Pipeline) *DiscoverStep {
	return &DiscoverStep{BaseStep: NewBaseStep(StepIDDiscover, StepNameDiscover), p: p}
}

// Execute lists the raw directory. Finding nothing ends the run.
func (s *DiscoverStep) Execute(ctx context.Context, run *RunState) error {
	sources, err := s.p.discovery.FindSources(s.p.paths.RawDir, s.p.cfg.Sources.Patterns)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNoInput, err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("%w: no files matching %v in %s",
			apperrors.ErrNoInput, s.p.cfg.Sources.Patterns, s.p.paths.RawDir)
	}

	run.Sources = sources
	names := make([]string, 0, len(sources))
	for _, f := range sources {
		names = append(names, f.Name)
	}
	run.GetStep(s.ID()).SetMetadata("files", names)
	return nil
}

// CleanStep reads, normalizes and filters each source. A source that cannot
// be read or persisted is logged and left out.
type CleanStep struct {
	BaseStep
	p *Pipeline
}

func newCleanStep(p *Pipeline) *CleanStep {
	return &CleanStep{BaseStep: NewBaseStep(StepIDClean, StepNameClean), p: p}
}

// Execute cleans every discovered source
func (s *CleanStep) Execute(ctx context.Context, run *RunState) error {
	metrics := s.p.metrics()

	paths := make([]string, len(run.Sources))
	for i, f := range run.Sources {
		paths[i] = f.Path
	}
	names := dataprocessing.SourceNames(paths)

	for i, f := range run.Sources {
		source := names[i]
		logger := infrastructure.WithSource(s.p.logger, source)
		result := SourceResult{Source: source, Path: f.Path}

		ds, err := s.cleanSource(ctx, run, f.Path, source, &result)
		if err != nil {
			infrastructure.WithError(logger, err).WarnContext(ctx, "Source skipped",
				slog.String("error_type", string(apperrors.TypeOf(err))))
			metrics.RecordSourceFailed(ctx, source)
			result.Status = SourceStatusFailed
			result.Error = err.Error()
			run.Results = append(run.Results, result)
			continue
		}

		result.Status = SourceStatusCleaned
		run.Results = append(run.Results, result)
		run.Cleaned = append(run.Cleaned, ds)
	}

	failed := len(run.Sources) - len(run.Cleaned)
	state := run.GetStep(s.ID())
	state.SetMetadata("cleaned_sources", len(run.Cleaned))
	state.SetMetadata("failed_sources", failed)

	if len(run.Cleaned) == 0 {
		return fmt.Errorf("%w: all %d sources failed", apperrors.ErrNoInput, len(run.Sources))
	}
	return nil
}

func (s *CleanStep) cleanSource(ctx context.Context, run *RunState, path, source string, result *SourceResult) (*domain.Dataset, error) {
	metrics := s.p.metrics()

	if err := s.p.validator.ValidateSource(path); err != nil {
		return nil, err
	}

	table, err := s.p.reader.ReadTable(path, source, s.p.readOptions)
	if err != nil {
		return nil, err
	}
	result.SkippedRows = table.SkippedLines
	metrics.RecordRowsRead(ctx, source, len(table.Rows))

	ds, stats := s.p.cleaner.Clean(s.p.normalizer.Normalize(table))
	result.Stats = stats
	for rule, n := range dataprocessing.RemovedByRule(stats) {
		metrics.RecordRowsRemoved(ctx, source, rule, n)
	}

	if !s.p.cfg.Output.WriteCleaned {
		return ds, nil
	}

	out, rows, err := s.p.datasets.WriteCleaned(source, ds)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to write cleaned dataset", err)
	}
	result.CleanedPath = out
	metrics.RecordRowsWritten(ctx, ArtifactCleaned, rows)
	run.AddArtifact(ArtifactRecord{Kind: ArtifactCleaned, Path: out, Rows: rows})
	return ds, nil
}

// LoadCleanedStep reads the persisted cleaned datasets for a merge-only run
type LoadCleanedStep struct {
	BaseStep
	p *Pipeline
}

func newLoadCleanedStep(p *Pipeline) *LoadCleanedStep {
	return &LoadCleanedStep{BaseStep: NewBaseStep(StepIDLoadCleaned, StepNameLoadCleaned), p: p}
}

// Execute loads every *_clean.csv in the cleaned directory
func (s *LoadCleanedStep) Execute(ctx context.Context, run *RunState) error {
	found, err := s.p.discovery.FindFilesByPattern(s.p.paths.CleanedDir, "*"+config.CleanedFileSuffix)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("%w: no cleaned datasets in %s", apperrors.ErrNoInput, s.p.paths.CleanedDir)
	}

	for _, f := range found {
		ds, err := s.p.loader.LoadDataset(f.Path)
		if err != nil {
			s.p.logger.WarnContext(ctx, "Cleaned dataset skipped",
				slog.String("path", f.Path),
				slog.String("error", err.Error()))
			run.Results = append(run.Results, SourceResult{
				Source: dataprocessing.SourceName(f.Path),
				Path:   f.Path,
				Status: SourceStatusFailed,
				Error:  err.Error(),
			})
			continue
		}
		run.Sources = append(run.Sources, f)
		run.Cleaned = append(run.Cleaned, ds)
	}

	run.GetStep(s.ID()).SetMetadata("loaded", len(run.Cleaned))
	if len(run.Cleaned) == 0 {
		return fmt.Errorf("%w: no cleaned dataset could be read", apperrors.ErrNoInput)
	}
	return nil
}

// MergeStep combines the cleaned datasets and persists the result
type MergeStep struct {
	BaseStep
	p *Pipeline
}

func newMergeStep(p *Pipeline) *MergeStep {
	return &MergeStep{BaseStep: NewBaseStep(StepIDMerge, StepNameMerge), p: p}
}

// Execute merges in source order. Failing to persist the combined file is
// logged and the in-memory dataset still feeds the reports.
func (s *MergeStep) Execute(ctx context.Context, run *RunState) error {
	run.Merged = s.p.merger.Merge(run.Cleaned...)

	state := run.GetStep(s.ID())
	state.SetMetadata("rows", run.Merged.Len())
	state.SetMetadata("columns", len(run.Merged.Columns))

	path, rows, err := s.p.datasets.WriteCombined(run.Merged, s.p.now())
	if err != nil {
		s.p.logger.ErrorContext(ctx, "Failed to write combined dataset", slog.String("error", err.Error()))
		state.SetMetadata("write_error", err.Error())
		return nil
	}

	s.p.metrics().RecordRowsWritten(ctx, ArtifactCombined, rows)
	run.AddArtifact(ArtifactRecord{Kind: ArtifactCombined, Path: path, Rows: rows})
	return nil
}

// LoadCombinedStep reads the newest combined dataset for an analyze-only run
type LoadCombinedStep struct {
	BaseStep
	p *Pipeline
}

func newLoadCombinedStep(p *Pipeline) *LoadCombinedStep {
	return &LoadCombinedStep{BaseStep: NewBaseStep(StepIDLoadCombined, StepNameLoadCombined), p: p}
}

// Execute loads the latest combined_sales_data_*.csv
func (s *LoadCombinedStep) Execute(ctx context.Context, run *RunState) error {
	latest, err := s.p.discovery.FindLatest(s.p.paths.CleanedDir, config.CombinedFilePattern)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNoInput, err)
	}

	ds, err := s.p.loader.LoadDataset(latest.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrNoInput, err)
	}

	run.Sources = append(run.Sources, latest)
	run.Merged = ds
	run.GetStep(s.ID()).SetMetadata("path", latest.Path)
	return nil
}

// AnalyzeStep computes the reports, writes their tables and renders charts
type AnalyzeStep struct {
	BaseStep
	p *Pipeline
}

func newAnalyzeStep(p *Pipeline) *AnalyzeStep {
	return &AnalyzeStep{BaseStep: NewBaseStep(StepIDAnalyze, StepNameAnalyze), p: p}
}

// Execute runs every report. Write and render failures are logged per
// artifact and do not fail the step.
func (s *AnalyzeStep) Execute(ctx context.Context, run *RunState) error {
	metrics := s.p.metrics()

	res := s.p.analyzer.Run(run.Merged)
	run.Analysis = &res

	for _, skip := range res.Skipped {
		metrics.RecordReportSkipped(ctx, skip.Report)
	}

	written, rendered := 0, 0
	for _, a := range res.Artifacts {
		logger := s.p.logger.With(slog.String("report", a.Report))

		path, err := s.p.reports.WriteTable(a)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to write report", slog.String("error", err.Error()))
		} else {
			written++
			metrics.RecordRowsWritten(ctx, a.Report, len(a.Table.Rows))
			run.AddArtifact(ArtifactRecord{Kind: ArtifactReport, Report: a.Report, Path: path, Rows: len(a.Table.Rows)})
		}

		if !s.p.cfg.Output.Charts || a.Chart == nil || a.ChartFile == "" {
			continue
		}
		chartPath := s.p.paths.GetVisualizationPath(a.ChartFile)
		if err := s.p.charts.Render(a.Chart, chartPath); err != nil {
			logger.WarnContext(ctx, "Chart not rendered", slog.String("error", err.Error()))
			continue
		}
		rendered++
		run.AddArtifact(ArtifactRecord{Kind: ArtifactChart, Report: a.Report, Path: chartPath})
	}

	state := run.GetStep(s.ID())
	state.SetMetadata("reports_written", written)
	state.SetMetadata("charts_rendered", rendered)
	state.SetMetadata("reports_skipped", len(res.Skipped))
	return nil
}

// ExportStep appends the merged dataset to SQLite when configured
type ExportStep struct {
	BaseStep
	p *Pipeline
}

func newExportStep(p *Pipeline) *ExportStep {
	return &ExportStep{BaseStep: NewBaseStep(StepIDExport, StepNameExport), p: p}
}

// Execute writes the merged rows tagged with the run id. A failed export is
// logged and reported as a skip.
func (s *ExportStep) Execute(ctx context.Context, run *RunState) error {
	if s.p.sqlite == nil {
		return SkipStep("sqlite export not configured")
	}

	rows, err := s.p.sqlite.Export(ctx, run.ID, run.Merged)
	if err != nil {
		s.p.logger.ErrorContext(ctx, "SQLite export failed", slog.String("error", err.Error()))
		return SkipStep(fmt.Sprintf("sqlite export failed: %v", err))
	}

	s.p.metrics().RecordRowsWritten(ctx, ArtifactDatabase, rows)
	run.AddArtifact(ArtifactRecord{Kind: ArtifactDatabase, Path: s.p.sqlite.Path(), Rows: rows})
	return nil
}
