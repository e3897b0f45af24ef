package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rinex_meta"

// Metrics holds the Prometheus counters, histograms, and gauges for conversion runs.
type Metrics struct {
	FilesDiscovered  prometheus.Counter
	FilesParsed      prometheus.Counter
	FilesFailed      prometheus.Counter
	FallbackDates    prometheus.Counter
	Stations         prometheus.Gauge
	Periods          *prometheus.GaugeVec   // labels: granularity={combined,equipment}
	ReportsWritten   *prometheus.CounterVec // labels: kind
	ReportsFailed    *prometheus.CounterVec // labels: kind
	RecordsPublished prometheus.Counter

	RunDuration       prometheus.Histogram
	LastSuccessfulRun prometheus.Gauge
	RunInProgress     prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates all run metrics and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(m.collectors()...)
	return m
}

// Gatherer returns the registry holding the metrics.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m.registry != nil {
		return m.registry
	}
	return prometheus.DefaultGatherer
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Gatherer())
}

func newMetrics() *Metrics {
	return &Metrics{
		FilesDiscovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_discovered_total",
			Help:      "Total observation files found in the input tree.",
		}),
		FilesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_parsed_total",
			Help:      "Total observation file headers parsed.",
		}),
		FilesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_failed_total",
			Help:      "Total observation files dropped because their header could not be read.",
		}),
		FallbackDates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_dates_total",
			Help:      "Total filenames whose date could not be derived.",
		}),
		Stations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stations",
			Help:      "Unique stations in the last run.",
		}),
		Periods: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "periods",
			Help:      "Observation periods in the last run by granularity.",
		}, []string{"granularity"}),
		ReportsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_written_total",
			Help:      "Report files written by kind.",
		}, []string{"kind"}),
		ReportsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_failed_total",
			Help:      "Report files that could not be written by kind.",
		}, []string{"kind"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Station records and periods published to Kafka.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete discover-parse-aggregate-write run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastSuccessfulRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_successful_run_timestamp_seconds",
			Help:      "Unix time of the last run that wrote every report.",
		}),
		RunInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_in_progress",
			Help:      "1 while a run is active, 0 otherwise.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.FilesDiscovered,
		m.FilesParsed,
		m.FilesFailed,
		m.FallbackDates,
		m.Stations,
		m.Periods,
		m.ReportsWritten,
		m.ReportsFailed,
		m.RecordsPublished,
		m.RunDuration,
		m.LastSuccessfulRun,
		m.RunInProgress,
	}
}
