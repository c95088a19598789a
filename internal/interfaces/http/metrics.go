package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds the Prometheus metrics exposed by serve mode.
type MetricsRegistry struct {
	registry *prometheus.Registry

	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	RowsDropped    prometheus.Counter
	ActiveSessions prometheus.Gauge
	SegmentsPerRun prometheus.Histogram
	HTTPRequests   *prometheus.CounterVec
}

// NewMetricsRegistry creates and registers all rankpulse metrics on a
// private registry, so tests can build servers without colliding on the
// global default.
func NewMetricsRegistry() *MetricsRegistry {
	m := &MetricsRegistry{
		registry: prometheus.NewRegistry(),

		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankpulse_runs_total",
				Help: "Total number of analysis runs by result",
			},
			[]string{"result"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rankpulse_run_duration_seconds",
				Help:    "Duration of full analysis runs in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
		),
		RowsDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rankpulse_rows_dropped_total",
				Help: "Total number of malformed input rows dropped during ingestion",
			},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rankpulse_active_sessions",
				Help: "Number of uploaded datasets currently held in memory",
			},
		),
		SegmentsPerRun: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rankpulse_segments_per_run",
				Help:    "Number of ranking state segments produced per run",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rankpulse_http_requests_total",
				Help: "Total HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
	}

	m.registry.MustRegister(
		m.RunsTotal,
		m.RunDuration,
		m.RowsDropped,
		m.ActiveSessions,
		m.SegmentsPerRun,
		m.HTTPRequests,
	)
	return m
}

// Handler serves the /metrics endpoint for this registry.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
