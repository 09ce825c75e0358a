package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion and engine Prometheus metrics.
var (
	IngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grepdex",
			Name:      "ingest_total",
			Help:      "Total number of ingested uploads by outcome",
		},
		[]string{"outcome"}, // "success" / "error" / "rejected"
	)

	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "grepdex",
			Name:      "ingest_duration_seconds",
			Help:      "Ingestion pipeline duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	IngestBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "grepdex",
			Name:      "ingest_bytes_total",
			Help:      "Total uploaded bytes accepted",
		},
	)

	EngineInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "grepdex",
			Name:      "engine_invocations_total",
			Help:      "Total external engine invocations",
		},
		[]string{"engine", "status"}, // status: "ok" / "error" / "timeout"
	)

	EngineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "grepdex",
			Name:      "engine_duration_seconds",
			Help:      "External engine invocation duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"engine"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers ingestion and engine metrics. Must be
// called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestTotal)
	prometheus.MustRegister(IngestDuration)
	prometheus.MustRegister(IngestBytes)
	prometheus.MustRegister(EngineInvocationsTotal)
	prometheus.MustRegister(EngineDuration)
	pipelineMetricsRegistered = true
}
