package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wave-data-etl/internal/charts"
	"github.com/couchcryptid/wave-data-etl/internal/domain"
	"github.com/couchcryptid/wave-data-etl/internal/ingest"
	"github.com/couchcryptid/wave-data-etl/internal/observability"
	"github.com/couchcryptid/wave-data-etl/internal/pipeline"
	"github.com/couchcryptid/wave-data-etl/internal/report"
)

// --- mocks ---

type mockExtractor struct {
	src string
	err error
}

func (m *mockExtractor) Extract(_ context.Context) (dataframe.DataFrame, error) {
	if m.err != nil {
		return dataframe.DataFrame{}, m.err
	}
	return ingest.ReadCSV(strings.NewReader(m.src))
}

type mockLoader struct {
	runID   string
	schema  domain.SchemaKind
	records []domain.Record
	err     error
}

func (m *mockLoader) LoadRecords(_ context.Context, runID string, schema domain.SchemaKind, records []domain.Record) error {
	m.runID, m.schema, m.records = runID, schema, records
	return m.err
}

type mockBuilder struct {
	selected []string
	outputs  []charts.ChartOutput
	err      error
}

func (m *mockBuilder) Build(_ context.Context, _ *domain.Table, selected []string) ([]charts.ChartOutput, error) {
	m.selected = selected
	if m.outputs == nil {
		for _, id := range selected {
			m.outputs = append(m.outputs, charts.ChartOutput{ID: id, Filename: id + ".png"})
		}
	}
	return m.outputs, m.err
}

type mockSink struct {
	charts    []charts.ChartOutput
	entries   []report.Entry
	reportErr error
}

func (m *mockSink) SaveCharts(_ context.Context, outputs []charts.ChartOutput) error {
	m.charts = outputs
	return nil
}

func (m *mockSink) SaveReport(_ context.Context, entries []report.Entry) error {
	m.entries = entries
	return m.reportErr
}

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

const epochSource = `Epoch Time,Significant Wave Height (m),Peak Period (s),Mean Period (s),Peak Direction (deg),Peak Directional Spread (deg),Mean Direction (deg),Mean Directional Spread (deg)
1685579400,1.2,8,5,265,25,270,30
1685577600,1.1,8,5,266,24,271,31
1685577600,9.9,8,5,266,24,271,31
`

func newPipeline(ext pipeline.Extractor, b pipeline.ChartBuilder, s pipeline.OutputSink, metrics *observability.Metrics, opts pipeline.Options, loaders ...pipeline.RecordLoader) *pipeline.Pipeline {
	tfm := pipeline.NewTransformer(domain.SchemaAuto, time.Time{}, slog.Default(), metrics)
	return pipeline.New(ext, tfm, b, s, slog.Default(), metrics, opts, loaders...)
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	builder := &mockBuilder{}
	sink := &mockSink{}
	loader := &mockLoader{}
	metrics := newTestMetrics()

	p := newPipeline(&mockExtractor{src: epochSource}, builder, sink, metrics,
		pipeline.Options{Charts: []string{"rose", "sigWave"}, ReportTopN: 1}, loader)

	require.Error(t, p.CheckReadiness(context.Background()))
	require.NoError(t, p.Run(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))

	assert.Equal(t, []string{"rose", "sigWave"}, builder.selected)
	assert.Len(t, sink.charts, 2)
	require.Len(t, sink.entries, 1)
	assert.Equal(t, 1.2, sink.entries[0].SignificantWaveHeight)

	require.NotNil(t, p.Table())
	assert.Equal(t, 2, p.Table().Len())

	_, err := uuid.Parse(p.RunID())
	require.NoError(t, err)
	assert.Equal(t, p.RunID(), loader.runID)
	assert.Equal(t, domain.SchemaEpoch, loader.schema)
	assert.Len(t, loader.records, 2)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.RowsRead))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RecordsNormalized))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DuplicatesDropped))
	assert.Zero(t, testutil.ToFloat64(metrics.PipelineRunning))
}

func TestPipeline_Run_Defaults(t *testing.T) {
	builder := &mockBuilder{}
	sink := &mockSink{}
	p := newPipeline(&mockExtractor{src: epochSource}, builder, sink, newTestMetrics(), pipeline.Options{})

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, charts.DefaultSelection, builder.selected)
	assert.Len(t, sink.entries, 2, "default top-n exceeds the table size")
}

func TestPipeline_Run_ExtractError(t *testing.T) {
	sink := &mockSink{}
	p := newPipeline(&mockExtractor{err: errors.New("no such file")}, &mockBuilder{}, sink, newTestMetrics(), pipeline.Options{})

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract")
	assert.Nil(t, sink.charts)
	assert.Error(t, p.CheckReadiness(context.Background()))
}

func TestPipeline_Run_NormalizeErrorAbortsRun(t *testing.T) {
	src := "Epoch Time,Significant Wave Height (m)\n1685577600,1.1\n"
	builder := &mockBuilder{}
	loader := &mockLoader{}
	p := newPipeline(&mockExtractor{src: src}, builder, &mockSink{}, newTestMetrics(), pipeline.Options{}, loader)

	err := p.Run(context.Background())
	var mismatch *domain.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Contains(t, mismatch.Missing, "Peak_Period")
	assert.Nil(t, builder.selected, "charts not attempted")
	assert.Nil(t, loader.records, "nothing published")
	assert.Nil(t, p.Table())
}

func TestPipeline_Run_LaterStageErrorsAreJoined(t *testing.T) {
	unknown := &domain.UnknownChartIDError{ID: "bogus"}
	builder := &mockBuilder{
		outputs: []charts.ChartOutput{{ID: "sigWave", Filename: "sigWave.png"}},
		err:     unknown,
	}
	sink := &mockSink{reportErr: errors.New("read-only file system")}
	loader := &mockLoader{err: errors.New("broker down")}

	p := newPipeline(&mockExtractor{src: epochSource}, builder, sink, newTestMetrics(),
		pipeline.Options{Charts: []string{"sigWave", "bogus"}}, loader)

	err := p.Run(context.Background())
	require.Error(t, err)

	var gotUnknown *domain.UnknownChartIDError
	assert.ErrorAs(t, err, &gotUnknown)
	assert.Contains(t, err.Error(), "broker down")
	assert.Contains(t, err.Error(), "read-only file system")

	// Charts that did build were still saved.
	assert.Len(t, sink.charts, 1)
	assert.NoError(t, p.CheckReadiness(context.Background()))
}
