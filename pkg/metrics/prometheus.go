package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	historiesFetched *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	enrichedRows     prometheus.Gauge
	latency          *prometheus.HistogramVec
	fxAlerts         *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		historiesFetched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etfview_histories_fetched_total",
				Help: "Total number of instrument histories fetched",
			},
			[]string{"source", "symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etfview_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		enrichedRows: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "etfview_enriched_rows",
				Help: "Number of rows in the current dashboard snapshot",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "etfview_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		fxAlerts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etfview_fx_alerts_total",
				Help: "Total number of FX level alerts sent",
			},
			[]string{"kind"},
		),
	}
}

// RecordFetch records one fetched instrument history.
func (r *Recorder) RecordFetch(source, symbol string) {
	r.historiesFetched.WithLabelValues(source, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRows records the size of the current snapshot.
func (r *Recorder) RecordRows(n int) {
	r.enrichedRows.Set(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordAlert records an FX alert by kind.
func (r *Recorder) RecordAlert(kind string) {
	r.fxAlerts.WithLabelValues(kind).Inc()
}
