package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	investigations *prometheus.CounterVec
	candidates     *prometheus.HistogramVec
	sourceErrors   *prometheus.CounterVec
	printsStored   *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		investigations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trusttrace_investigations_total",
				Help: "Total number of investigations run",
			},
			[]string{"debt_type", "matched"},
		),
		candidates: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trusttrace_investigation_candidates",
				Help:    "Candidate trusts found per investigation",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
			},
			[]string{"debt_type"},
		),
		sourceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trusttrace_source_errors_total",
				Help: "Failed source adapter calls, skipped by the investigator",
			},
			[]string{"source"},
		),
		printsStored: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trusttrace_prints_stored_total",
				Help: "Trade prints routed to a backend",
			},
			[]string{"backend", "identifier"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trusttrace_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "trusttrace_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordInvestigation records one completed investigation run.
func (r *Recorder) RecordInvestigation(debtType string, candidates int) {
	r.investigations.WithLabelValues(debtType, strconv.FormatBool(candidates > 0)).Inc()
	r.candidates.WithLabelValues(debtType).Observe(float64(candidates))
}

// RecordSourceError records a skipped source adapter call.
func (r *Recorder) RecordSourceError(source string) {
	r.sourceErrors.WithLabelValues(source).Inc()
}

// RecordPrintStored records a print routed to a backend.
func (r *Recorder) RecordPrintStored(backend, identifier string) {
	r.printsStored.WithLabelValues(backend, identifier).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
