package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	SourceLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trusttrace",
			Subsystem: "sources",
			Name:      "latency_seconds",
			Help:      "Latency of external source requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	SourceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trusttrace",
			Subsystem: "sources",
			Name:      "errors_total",
			Help:      "Errors by external source",
		},
		[]string{"source"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(SourceLatency, SourceErrors)
	})
}
