package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"

	"shillergen/internal/config"
	apperrors "shillergen/internal/errors"
	"shillergen/internal/infrastructure"
	"shillergen/internal/validation"
)

// Emitter writes the annual series to path
type Emitter interface {
	Emit(ctx context.Context, records []AnnualRecord, path string) error
}

// Result reports what a run produced
type Result struct {
	Records    []AnnualRecord
	Load       LoadStats
	OutputPath string
	Summary    *SummaryStats
}

// Transcoder runs the full regeneration: load, parse, select, emit and the optional
// summary. It stops at the first fatal error.
type Transcoder struct {
	cfg       *config.Config
	paths     *config.Paths
	emitter   Emitter
	loader    *Loader
	validator *validation.FileValidator
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
	stdout    io.Writer
}

// NewTranscoder creates a transcoder. A nil telemetry records nothing.
func NewTranscoder(cfg *config.Config, paths *config.Paths, emitter Emitter, telemetry *infrastructure.Telemetry, logger *slog.Logger) (*Transcoder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if telemetry == nil {
		var err error
		if telemetry, err = infrastructure.NewTelemetry(nil, nil); err != nil {
			return nil, err
		}
	}

	columns := Columns{
		Date:     cfg.Columns.Date,
		Price:    cfg.Columns.Price,
		Dividend: cfg.Columns.Dividend,
		BondRate: cfg.Columns.BondRate,
	}

	return &Transcoder{
		cfg:       cfg,
		paths:     paths,
		emitter:   emitter,
		loader:    NewLoader(columns, infrastructure.WithComponent(logger, "loader")).WithSheet(cfg.Transcode.Sheet),
		validator: validation.NewFileValidator(logger),
		telemetry: telemetry,
		logger:    infrastructure.WithComponent(logger, "transcoder"),
		stdout:    os.Stdout,
	}, nil
}

// WithOutput redirects the console messages
func (t *Transcoder) WithOutput(w io.Writer) *Transcoder {
	t.stdout = w
	return t
}

// Run regenerates the output file from the input file
func (t *Transcoder) Run(ctx context.Context) (*Result, error) {
	metrics := t.telemetry.Metrics
	result := &Result{OutputPath: t.paths.OutputFile}

	t.logger.InfoContext(ctx, "Starting transcode",
		slog.String("input", t.paths.InputRel),
		slog.String("output", t.paths.OutputRel),
		slog.Int("min_year", t.cfg.Transcode.MinYear))

	// load
	stageCtx, end := t.telemetry.StartStage(ctx, "load")
	loaded, err := t.loader.Load(stageCtx, t.paths.InputFile)
	end(err)
	if err != nil {
		return nil, err
	}
	result.Load = loaded.Stats
	metrics.RowsRead.Add(ctx, int64(loaded.Stats.RowsRead))
	metrics.RowsDropped.Add(ctx, int64(loaded.Stats.RowsDropped))
	metrics.CellsMissing.Add(ctx, int64(loaded.Stats.CellsMissing))
	if loaded.Stats.CellsMissing > 0 {
		t.logger.InfoContext(ctx, "Unparseable numeric cells stored as missing",
			slog.Int("cells_missing", loaded.Stats.CellsMissing))
	}

	// parse
	_, end = t.telemetry.StartStage(ctx, "parse")
	parsed, err := ParseObservations(loaded.Observations)
	end(err)
	if err != nil {
		return nil, err
	}

	// select
	stageCtx, end = t.telemetry.StartStage(ctx, "select")
	result.Records = SelectAnnual(stageCtx, parsed, t.cfg.Transcode.MinYear, t.logger)
	infrastructure.AddSpanAttributes(stageCtx, attribute.Int("records", len(result.Records)))
	end(nil)
	if len(result.Records) == 0 {
		t.logger.WarnContext(ctx, "No December rows selected, writing an empty series",
			slog.Int("min_year", t.cfg.Transcode.MinYear))
	}

	// emit
	stageCtx, end = t.telemetry.StartStage(ctx, "emit")
	err = t.emit(stageCtx, result.Records)
	end(err)
	if err != nil {
		return nil, err
	}
	metrics.RecordsEmitted.Add(ctx, int64(len(result.Records)))

	fmt.Fprintf(t.stdout, "Wrote %d years of data to %s\n", len(result.Records), t.paths.OutputFile)

	if t.cfg.Transcode.Summarize {
		t.summarize(ctx, result)
	}

	t.logger.InfoContext(ctx, "Transcode completed",
		slog.Int("records", len(result.Records)),
		slog.String("output", t.paths.OutputRel))

	return result, nil
}

func (t *Transcoder) emit(ctx context.Context, records []AnnualRecord) error {
	if err := t.paths.EnsureDataDir(); err != nil {
		return apperrors.NewStorageError("failed to prepare data directory", err)
	}
	if err := t.validator.ValidateOutputDirectory(filepath.Dir(t.paths.OutputFile)); err != nil {
		return err
	}
	if err := t.emitter.Emit(ctx, records, t.paths.OutputFile); err != nil {
		return err
	}
	return nil
}

// summarize prints the statistics. A summary that cannot be computed is logged and
// does not fail the run.
func (t *Transcoder) summarize(ctx context.Context, result *Result) {
	_, end := t.telemetry.StartStage(ctx, "summarize")
	summary, err := Summarize(result.Records)
	end(err)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrTypeInsufficientData) {
			t.logger.WarnContext(ctx, "Skipping summary", slog.Any("error", err))
			return
		}
		t.logger.ErrorContext(ctx, "Summary failed", slog.Any("error", err))
		return
	}

	result.Summary = &summary
	if err := summary.Print(t.stdout); err != nil {
		t.logger.WarnContext(ctx, "Failed to print summary", slog.String("error", err.Error()))
	}
}
