package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of calls to the external inference service, including failures
	InferenceRequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_inference_request_duration_seconds",
		Help:    "Latency of external inference calls",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
	})

	InferenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_inference_failures_total",
			Help: "Failed external inference calls by reason",
		},
		[]string{"reason"},
	)

	// 0 closed, 1 half-open, 2 open
	InferenceCircuitState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "advisor_inference_circuit_state",
		Help: "Circuit breaker state of the inference client",
	})
)

func Init() {
	prometheus.MustRegister(
		InferenceRequestDuration,
		InferenceFailures,
		InferenceCircuitState,
	)
}
