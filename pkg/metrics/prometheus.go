package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	sourceRows    *prometheus.CounterVec
	rowsPersisted prometheus.Counter
	lastRun       prometheus.Gauge
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		sourceRows: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuescan_source_rows_total",
				Help: "Total number of rows fetched from upstream sources",
			},
			[]string{"source"},
		),
		rowsPersisted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "valuescan_rows_persisted_total",
				Help: "Total number of enriched rows written to storage",
			},
		),
		lastRun: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "valuescan_last_run_timestamp_seconds",
				Help: "Unix time of the last successful pipeline run",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "valuescan_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "valuescan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSourceRows records rows fetched from an upstream source.
func (r *Recorder) RecordSourceRows(source string, n int) {
	r.sourceRows.WithLabelValues(source).Add(float64(n))
}

// RecordRowsPersisted records rows written by a pipeline run. A persist
// happens exactly once per successful run, so it doubles as the last-run
// marker.
func (r *Recorder) RecordRowsPersisted(n int) {
	r.rowsPersisted.Add(float64(n))
	r.lastRun.SetToCurrentTime()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
