package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"salesreport/internal/analytics"
	"salesreport/internal/charts"
	"salesreport/internal/config"
	"salesreport/internal/dataprocessing"
	"salesreport/internal/exporter"
	"salesreport/internal/files"
	"salesreport/internal/infrastructure"
	"salesreport/internal/validation"
)

// Pipeline wires the components of a run together and builds the step list
// for each command
type Pipeline struct {
	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry

	discovery   *files.Discovery
	fileManager *files.Manager
	validator   *validation.FileValidator
	reader      *dataprocessing.Reader
	readOptions dataprocessing.ReadOptions
	normalizer  *dataprocessing.Normalizer
	cleaner     *dataprocessing.Cleaner
	merger      *dataprocessing.Merger
	loader      *dataprocessing.Loader
	analyzer    *analytics.Analyzer
	datasets    *exporter.DatasetWriter
	reports     *exporter.ReportWriter
	charts      *charts.Renderer
	sqlite      *exporter.SQLiteExporter

	now func() time.Time
}

// NewPipeline creates a pipeline from validated configuration. A nil
// telemetry records no spans or metrics.
func NewPipeline(cfg *config.Config, paths *config.Paths, logger *slog.Logger, telemetry *infrastructure.Telemetry) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pipeline{
		cfg:         cfg,
		paths:       paths,
		logger:      logger,
		telemetry:   telemetry,
		discovery:   files.NewDiscovery(paths.BaseDir, infrastructure.WithComponent(logger, "discovery")),
		fileManager: files.NewManager(paths, logger),
		validator:   validation.NewFileValidator(infrastructure.WithComponent(logger, "validation")),
		reader:      dataprocessing.NewReader(infrastructure.WithComponent(logger, "reader")),
		readOptions: dataprocessing.DefaultReadOptions(),
		normalizer:  dataprocessing.NewNormalizer(infrastructure.WithComponent(logger, "normalizer")),
		cleaner: dataprocessing.NewCleaner(
			dataprocessing.CleanOptionsFromConfig(cfg.Cleaning),
			infrastructure.WithComponent(logger, "cleaner")),
		merger:   dataprocessing.NewMerger(infrastructure.WithComponent(logger, "merger")),
		loader:   dataprocessing.NewLoader(infrastructure.WithComponent(logger, "loader")),
		analyzer: analytics.NewAnalyzer(analytics.Options{TopN: cfg.Output.TopN}, infrastructure.WithComponent(logger, "analytics")),
		datasets: exporter.NewDatasetWriter(paths, cfg.Output.BOMPrefix, infrastructure.WithComponent(logger, "exporter")),
		reports:  exporter.NewReportWriter(paths, cfg.Output.BOMPrefix, infrastructure.WithComponent(logger, "exporter")),
		charts:   charts.NewRenderer(infrastructure.WithComponent(logger, "charts")),
		now:      time.Now,
	}

	if cfg.Output.SQLitePath != "" {
		dbPath := cfg.Output.SQLitePath
		if !filepath.IsAbs(dbPath) {
			dbPath = paths.GetReportPath(dbPath)
		}
		p.sqlite = exporter.NewSQLiteExporter(dbPath, cfg.Output.SQLiteTable, infrastructure.WithComponent(logger, "sqlite"))
	}

	return p
}

// Steps returns the steps a command runs, in order
func (p *Pipeline) Steps(cmd Command) ([]Step, error) {
	switch cmd {
	case CommandRun:
		return []Step{
			newDiscoverStep(p),
			newCleanStep(p),
			newMergeStep(p),
			newAnalyzeStep(p),
			newExportStep(p),
		}, nil
	case CommandClean:
		return []Step{newDiscoverStep(p), newCleanStep(p)}, nil
	case CommandMerge:
		return []Step{newLoadCleanedStep(p), newMergeStep(p), newExportStep(p)}, nil
	case CommandAnalyze:
		return []Step{newLoadCombinedStep(p), newAnalyzeStep(p)}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", cmd)
	}
}

// Execute performs one command and writes the run manifest whatever the
// outcome. The returned state is never nil when err is a step failure.
func (p *Pipeline) Execute(ctx context.Context, cmd Command) (*RunState, error) {
	steps, err := p.Steps(cmd)
	if err != nil {
		return nil, err
	}

	if err := p.paths.EnsureDirectories(); err != nil {
		return nil, NewFatalError("failed to prepare output directories", err)
	}
	for _, dir := range []string{p.paths.CleanedDir, p.paths.ReportsDir, p.paths.VisualizationsDir} {
		if err := p.validator.ValidateOutputDirectory(dir); err != nil {
			return nil, NewFatalError("output directory is not usable", err)
		}
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	run := NewRunState(infrastructure.GenerateTraceID(), cmd)
	run.TraceID = infrastructure.GetTraceID(ctx)

	ctx, span := p.telemetry.StartSpan(ctx, "pipeline."+string(cmd))
	defer span.End()

	runErr := NewRunner(p.logger, p.telemetry, steps...).Execute(ctx, run)
	if runErr != nil {
		infrastructure.RecordError(ctx, runErr)
	}

	if path := p.telemetry.MetricsPath(); path != "" {
		run.AddArtifact(ArtifactRecord{Kind: ArtifactMetrics, Path: path})
	}

	if err := p.writeManifest(run); err != nil {
		p.logger.ErrorContext(ctx, "Failed to write run manifest", slog.String("error", err.Error()))
	}

	return run, runErr
}

func (p *Pipeline) writeManifest(run *RunState) error {
	data, err := BuildManifest(run).Marshal()
	if err != nil {
		return err
	}
	path, err := p.fileManager.WriteFile(p.paths.GetReportPath(config.RunManifestFile), data)
	if err != nil {
		return err
	}
	p.logger.Info("Run manifest written", slog.String("path", path))
	return nil
}

func (p *Pipeline) metrics() *infrastructure.PipelineMetrics {
	if p.telemetry == nil {
		return nil
	}
	return p.telemetry.Metrics
}
