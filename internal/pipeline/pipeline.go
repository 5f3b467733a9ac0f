package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"

	"github.com/couchcryptid/wave-data-etl/internal/charts"
	"github.com/couchcryptid/wave-data-etl/internal/domain"
	"github.com/couchcryptid/wave-data-etl/internal/observability"
	"github.com/couchcryptid/wave-data-etl/internal/report"
)

// Extractor reads the raw source table.
type Extractor interface {
	Extract(ctx context.Context) (dataframe.DataFrame, error)
}

// Transformer normalizes a raw table.
type Transformer interface {
	Transform(ctx context.Context, frame dataframe.DataFrame) (*domain.Table, error)
}

// RecordLoader publishes normalized records downstream.
type RecordLoader interface {
	LoadRecords(ctx context.Context, runID string, schema domain.SchemaKind, records []domain.Record) error
}

// ChartBuilder renders the selected charts from a table.
type ChartBuilder interface {
	Build(ctx context.Context, table *domain.Table, selected []string) ([]charts.ChartOutput, error)
}

// OutputSink persists charts and the wave height report.
type OutputSink interface {
	SaveCharts(ctx context.Context, outputs []charts.ChartOutput) error
	SaveReport(ctx context.Context, entries []report.Entry) error
}

// Options selects what a run produces.
type Options struct {
	Charts     []string
	ReportTopN int
}

// Pipeline orchestrates one extract-normalize-load-chart batch.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	charts      ChartBuilder
	sink        OutputSink
	loaders     []RecordLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	opts        Options

	ready atomic.Bool
	table atomic.Pointer[domain.Table]
	runID atomic.Value
}

// New creates a Pipeline with the given stages and observability. Loaders
// are optional.
func New(e Extractor, t Transformer, c ChartBuilder, s OutputSink, logger *slog.Logger, metrics *observability.Metrics, opts Options, loaders ...RecordLoader) *Pipeline {
	if len(opts.Charts) == 0 {
		opts.Charts = append([]string(nil), charts.DefaultSelection...)
	}
	if opts.ReportTopN <= 0 {
		opts.ReportTopN = report.DefaultN
	}
	return &Pipeline{
		extractor:   e,
		transformer: t,
		charts:      c,
		sink:        s,
		loaders:     loaders,
		logger:      logger,
		metrics:     metrics,
		opts:        opts,
	}
}

// CheckReadiness returns nil once a table has been loaded, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded a table yet")
	}
	return nil
}

// Table returns the most recently normalized table, or nil before the first
// successful run.
func (p *Pipeline) Table() *domain.Table {
	return p.table.Load()
}

// RunID returns the id of the most recent run.
func (p *Pipeline) RunID() string {
	id, _ := p.runID.Load().(string)
	return id
}

// Run executes one batch. Extract and normalize failures abort the run.
// Failures in later stages are logged, the remaining stages still run, and
// all of them are returned joined.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.NewString()
	p.runID.Store(runID)
	logger := p.logger.With("run_id", runID)

	logger.Info("pipeline started", "charts", p.opts.Charts)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	frame, err := p.extractor.Extract(ctx)
	if err != nil {
		logger.Error("extract failed", "error", err)
		return fmt.Errorf("extract: %w", err)
	}
	p.metrics.RowsRead.Add(float64(frame.Nrow()))

	table, err := p.transformer.Transform(ctx, frame)
	if err != nil {
		logger.Error("normalize failed", "error", err)
		return fmt.Errorf("normalize: %w", err)
	}
	p.table.Store(table)
	p.ready.Store(true)

	var errs []error
	if err := p.load(ctx, logger, runID, table); err != nil {
		errs = append(errs, err)
	}

	outputs, err := p.charts.Build(ctx, table, p.opts.Charts)
	if err != nil {
		logger.Error("chart build failed", "error", err, "built", len(outputs))
		errs = append(errs, err)
	}
	for _, out := range outputs {
		if out.Warning != nil {
			logger.Warn("placeholder chart", "chart", out.ID, "warning", out.Warning)
		}
	}

	if err := p.sink.SaveCharts(ctx, outputs); err != nil {
		logger.Error("save charts failed", "error", err)
		errs = append(errs, err)
	}

	entries := report.TopN(table, p.opts.ReportTopN)
	if err := p.sink.SaveReport(ctx, entries); err != nil {
		logger.Error("save report failed", "error", err)
		errs = append(errs, err)
	}

	logger.Info("pipeline finished", "records", table.Len(), "charts", len(outputs), "errors", len(errs))
	return errors.Join(errs...)
}

func (p *Pipeline) load(ctx context.Context, logger *slog.Logger, runID string, table *domain.Table) error {
	if len(p.loaders) == 0 {
		return nil
	}
	records := table.Records()
	schema := table.Stats().Schema

	var errs []error
	for _, l := range p.loaders {
		if err := l.LoadRecords(ctx, runID, schema, records); err != nil {
			logger.Error("load records failed", "error", err, "records", len(records))
			errs = append(errs, fmt.Errorf("load records: %w", err))
		}
	}
	return errors.Join(errs...)
}
