package infrastructure

import (
	"context"
	"errors"
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
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"shillergen/internal/config"
)

const (
	ServiceName         = "shiller-yields"
	ServiceVersion      = "1.0.0"
	InstrumentationName = "shillergen"
)

// Telemetry bundles the tracer and metric instruments used by a generator run.
type Telemetry struct {
	Tracer  trace.Tracer
	Metrics *TranscodeMetrics

	shutdown []func(context.Context) error
}

// TranscodeMetrics holds the instruments recorded by the transcoding pipeline
type TranscodeMetrics struct {
	RowsRead       metric.Int64Counter
	RowsDropped    metric.Int64Counter
	CellsMissing   metric.Int64Counter
	RecordsEmitted metric.Int64Counter
	StageDuration  metric.Float64Histogram
}

// NewTelemetry wires a Telemetry onto existing providers. Nil providers fall back to no-ops.
func NewTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*Telemetry, error) {
	if tp == nil {
		tp = tracenoop.NewTracerProvider()
	}
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}

	metrics, err := NewTranscodeMetrics(mp.Meter(InstrumentationName))
	if err != nil {
		return nil, err
	}

	return &Telemetry{
		Tracer:  tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(ServiceVersion)),
		Metrics: metrics,
	}, nil
}

// InitializeTelemetry builds the providers selected by cfg. metricsFile is the resolved
// textfile path used by the prometheus exporter.
func InitializeTelemetry(ctx context.Context, cfg config.TelemetryConfig, metricsFile string, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	)

	var (
		tp       trace.TracerProvider
		mp       metric.MeterProvider
		shutdown []func(context.Context) error
	)

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(
			stdouttrace.WithPrettyPrint(),
			stdouttrace.WithWriter(os.Stderr),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		sdkTP := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exporter),
			sdktrace.WithResource(res),
		)
		tp = sdkTP
		shutdown = append(shutdown, sdkTP.Shutdown)
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	switch cfg.MetricExporter {
	case "prometheus":
		registry := prometheus.NewRegistry()
		exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
		if err != nil {
			return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		sdkMP := sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(exporter),
			sdkmetric.WithResource(res),
		)
		mp = sdkMP
		// The textfile has to be written before the provider shuts the reader down.
		shutdown = append(shutdown,
			func(context.Context) error { return writeTextfile(metricsFile, registry) },
			sdkMP.Shutdown,
		)
	case "none", "":
	default:
		return nil, fmt.Errorf("unsupported metric exporter: %s", cfg.MetricExporter)
	}

	telemetry, err := NewTelemetry(tp, mp)
	if err != nil {
		return nil, err
	}
	telemetry.shutdown = shutdown

	logger.DebugContext(ctx, "Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metric_exporter", cfg.MetricExporter))

	return telemetry, nil
}

// Shutdown flushes spans and writes metrics. All steps run even if one fails.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range t.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeTextfile(path string, gatherer prometheus.Gatherer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

// NewTranscodeMetrics creates the pipeline instruments on meter
func NewTranscodeMetrics(meter metric.Meter) (*TranscodeMetrics, error) {
	rowsRead, err := meter.Int64Counter("shiller_rows_read",
		metric.WithDescription("Rows read from the source file"))
	if err != nil {
		return nil, fmt.Errorf("failed to create rows read counter: %w", err)
	}

	rowsDropped, err := meter.Int64Counter("shiller_rows_dropped",
		metric.WithDescription("Rows dropped for a missing date"))
	if err != nil {
		return nil, fmt.Errorf("failed to create rows dropped counter: %w", err)
	}

	cellsMissing, err := meter.Int64Counter("shiller_cells_missing",
		metric.WithDescription("Numeric cells coerced to missing"))
	if err != nil {
		return nil, fmt.Errorf("failed to create missing cells counter: %w", err)
	}

	recordsEmitted, err := meter.Int64Counter("shiller_records_emitted",
		metric.WithDescription("Annual records written to the generated file"))
	if err != nil {
		return nil, fmt.Errorf("failed to create records emitted counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("shiller_stage_duration",
		metric.WithDescription("Duration of each pipeline stage"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create stage duration histogram: %w", err)
	}

	return &TranscodeMetrics{
		RowsRead:       rowsRead,
		RowsDropped:    rowsDropped,
		CellsMissing:   cellsMissing,
		RecordsEmitted: recordsEmitted,
		StageDuration:  stageDuration,
	}, nil
}

// StartStage opens a span for one pipeline stage. The returned func ends the span,
// records err on it and observes the stage duration.
func (t *Telemetry) StartStage(ctx context.Context, stage string) (context.Context, func(err error)) {
	start := time.Now()
	ctx, span := t.Tracer.Start(ctx, "shiller."+stage,
		trace.WithAttributes(attribute.String("stage", stage)))

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		t.Metrics.StageDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("stage", stage)))
		span.End()
	}
}

// AddSpanAttributes sets attributes on the current span if it is recording
func AddSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(attrs...)
}
