package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"salesreport/internal/config"
)

const (
	// MeterName is the instrumentation scope for pipeline metrics and spans
	MeterName = "salesreport"
)

// Telemetry holds the tracer, the meter and the files they flush to.
// A batch run has no scrape endpoint, so metrics are written as a Prometheus
// textfile when the run shuts down.
type Telemetry struct {
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *PipelineMetrics

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	registry       *prometheus.Registry
	traceFile      *os.File
	metricsPath    string
	logger         *slog.Logger
}

// InitializeTelemetry sets up tracing and metrics according to cfg.
// Relative output files are placed in the logs directory.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, paths *config.Paths, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	t := &Telemetry{
		Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
		Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
		logger: logger,
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(config.AppName),
		semconv.ServiceVersion(config.AppVersion),
	)

	if err := t.initializeTracing(cfg, paths, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(cfg, paths, res); err != nil {
		t.closeTraceFile()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	metrics, err := NewPipelineMetrics(t.Meter)
	if err != nil {
		t.closeTraceFile()
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	t.Metrics = metrics

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return t, nil
}

func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, paths *config.Paths, res *resource.Resource) error {
	switch cfg.TraceExporter {
	case "stdout":
		path := resolveTelemetryPath(paths, cfg.TraceFile)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create trace file %s: %w", path, err)
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
		if err != nil {
			file.Close()
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.traceFile = file
		t.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.tracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(config.AppVersion))
	case "none", "":
		// Tracing disabled
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	return nil
}

func (t *Telemetry) initializeMetrics(cfg config.TelemetryConfig, paths *config.Paths, res *resource.Resource) error {
	switch cfg.MetricExporter {
	case "prometheus":
		t.registry = prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(t.registry))
		if err != nil {
			return fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		t.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		t.Meter = t.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))
		t.metricsPath = resolveTelemetryPath(paths, cfg.MetricsFile)
	case "none", "":
		// Metrics disabled
	default:
		return fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}
	return nil
}

// StartSpan starts a span on the pipeline tracer
func (t *Telemetry) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t == nil || t.Tracer == nil {
		return tracenoop.NewTracerProvider().Tracer(MeterName).Start(ctx, name)
	}
	return t.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// MetricsPath returns where the metrics textfile is written, or "" when
// metrics are disabled.
func (t *Telemetry) MetricsPath() string {
	if t == nil {
		return ""
	}
	return t.metricsPath
}

// Shutdown flushes spans, writes the metrics textfile and releases providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}

	var errs []error

	// The registry can only be gathered while the meter provider is alive
	if t.registry != nil && t.metricsPath != "" {
		if err := os.MkdirAll(filepath.Dir(t.metricsPath), 0755); err != nil {
			errs = append(errs, fmt.Errorf("metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsPath, t.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		} else {
			t.logger.DebugContext(ctx, "Metrics written", slog.String("path", t.metricsPath))
		}
	}

	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if err := t.closeTraceFile(); err != nil {
		errs = append(errs, fmt.Errorf("close trace file: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}

func (t *Telemetry) closeTraceFile() error {
	if t.traceFile == nil {
		return nil
	}
	err := t.traceFile.Close()
	t.traceFile = nil
	return err
}

func resolveTelemetryPath(paths *config.Paths, name string) string {
	if paths == nil {
		return name
	}
	return paths.GetLogPath(name)
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// PipelineMetrics are the counters and histograms a pipeline run reports.
// All methods are safe on a nil receiver.
type PipelineMetrics struct {
	rowsRead       metric.Int64Counter
	rowsRemoved    metric.Int64Counter
	rowsWritten    metric.Int64Counter
	sourcesFailed  metric.Int64Counter
	reportsSkipped metric.Int64Counter
	stepDuration   metric.Float64Histogram
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsRead, err := meter.Int64Counter(
		"salesreport_rows_read_total",
		metric.WithDescription("Data rows read from source files"),
	)
	if err != nil {
		return nil, err
	}

	rowsRemoved, err := meter.Int64Counter(
		"salesreport_rows_removed_total",
		metric.WithDescription("Rows dropped by the row filter, by rule"),
	)
	if err != nil {
		return nil, err
	}

	rowsWritten, err := meter.Int64Counter(
		"salesreport_rows_written_total",
		metric.WithDescription("Rows written to output artifacts"),
	)
	if err != nil {
		return nil, err
	}

	sourcesFailed, err := meter.Int64Counter(
		"salesreport_sources_failed_total",
		metric.WithDescription("Source files that could not be read or cleaned"),
	)
	if err != nil {
		return nil, err
	}

	reportsSkipped, err := meter.Int64Counter(
		"salesreport_reports_skipped_total",
		metric.WithDescription("Reports skipped because required columns were missing"),
	)
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram(
		"salesreport_step_duration_seconds",
		metric.WithDescription("Pipeline step duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		rowsRead:       rowsRead,
		rowsRemoved:    rowsRemoved,
		rowsWritten:    rowsWritten,
		sourcesFailed:  sourcesFailed,
		reportsSkipped: reportsSkipped,
		stepDuration:   stepDuration,
	}, nil
}

// RecordRowsRead adds n rows read from source
func (m *PipelineMetrics) RecordRowsRead(ctx context.Context, source string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rowsRead.Add(ctx, int64(n), metric.WithAttributes(attribute.String("source", source)))
}

// RecordRowsRemoved adds n rows dropped from source under rule
func (m *PipelineMetrics) RecordRowsRemoved(ctx context.Context, source, rule string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rowsRemoved.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("rule", rule),
	))
}

// RecordRowsWritten adds n rows written to artifact
func (m *PipelineMetrics) RecordRowsWritten(ctx context.Context, artifact string, n int) {
	if m == nil {
		return
	}
	m.rowsWritten.Add(ctx, int64(n), metric.WithAttributes(attribute.String("artifact", artifact)))
}

// RecordSourceFailed counts a source that was dropped from the run
func (m *PipelineMetrics) RecordSourceFailed(ctx context.Context, source string) {
	if m == nil {
		return
	}
	m.sourcesFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordReportSkipped counts a report that could not be produced
func (m *PipelineMetrics) RecordReportSkipped(ctx context.Context, report string) {
	if m == nil {
		return
	}
	m.reportsSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("report", report)))
}

// RecordStepDuration records how long a pipeline step took
func (m *PipelineMetrics) RecordStepDuration(ctx context.Context, step, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.stepDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("step", step),
		attribute.String("status", status),
	))
}
