package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wave_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the buoy pipeline.
type Metrics struct {
	RowsRead          prometheus.Counter
	RecordsNormalized prometheus.Counter
	DuplicatesDropped prometheus.Counter
	IngestDuration    prometheus.Histogram
	PipelineRunning   prometheus.Gauge

	// Chart dispatch metrics.
	ChartsBuilt        *prometheus.CounterVec // labels: chart
	ChartErrors        *prometheus.CounterVec // labels: chart, reason={unknown_id,invalid_input,render,save}
	EmptyTableWarnings *prometheus.CounterVec // labels: chart
	RenderDuration     *prometheus.HistogramVec

	// Record sink metrics.
	RecordsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	prometheus.MustRegister(
		m.RowsRead,
		m.RecordsNormalized,
		m.DuplicatesDropped,
		m.IngestDuration,
		m.PipelineRunning,
		m.ChartsBuilt,
		m.ChartErrors,
		m.EmptyTableWarnings,
		m.RenderDuration,
		m.RecordsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      help("Total raw rows read from input sources."),
		}),
		RecordsNormalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_normalized_total",
			Help:      help("Total records kept in normalized tables."),
		}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicates_dropped_total",
			Help:      help("Total rows dropped because their timestamp was already present."),
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingest_duration_seconds",
			Help:      help("Duration of reading and normalizing one input source."),
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      help("1 while a pipeline run is active, 0 otherwise."),
		}),
		ChartsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_built_total",
			Help:      help("Charts rendered by chart id."),
		}, []string{"chart"}),
		ChartErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_errors_total",
			Help:      help("Chart failures by chart id and reason."),
		}, []string{"chart", "reason"}),
		EmptyTableWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_table_warnings_total",
			Help:      help("Placeholder charts produced from empty input."),
		}, []string{"chart"}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      help("Chart render duration in seconds."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"chart"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      help("Total normalized records written to the sink topic."),
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      help("Total failed sink publish attempts."),
		}),
	}
}
