package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	evaluationsTotal   *prometheus.CounterVec
	fallbacksTotal     *prometheus.CounterVec
	anomaliesTotal     *prometheus.CounterVec
	oracleLatency      *prometheus.HistogramVec
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the novelty service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "innolink",
			Subsystem: "novelty",
			Name:      "evaluations_total",
			Help:      "Novelty verdicts returned, by classification.",
		}, []string{"classification"})

		fallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "innolink",
			Subsystem: "novelty",
			Name:      "fallbacks_total",
			Help:      "Evaluations where the oracle could not be consulted, by reason.",
		}, []string{"reason"})

		anomaliesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "innolink",
			Subsystem: "novelty",
			Name:      "anomalies_total",
			Help:      "Oracle responses that were corrected before classification, by kind.",
		}, []string{"kind"})

		oracleLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "innolink",
			Subsystem: "novelty",
			Name:      "oracle_duration_seconds",
			Help:      "Duration of novelty oracle requests.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		}, []string{"provider"})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "innolink",
			Name:      "http_requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "innolink",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5, 10},
		}, []string{"method", "route"})

		prometheus.MustRegister(evaluationsTotal, fallbacksTotal, anomaliesTotal,
			oracleLatency, httpRequestsTotal, httpLatencySeconds)
	})
}

func Evaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsTotal
}

// Fallbacks counts substituted verdicts. A sustained rise means every
// submission is being passed as novel without a real check.
func Fallbacks() *prometheus.CounterVec {
	RegisterMetrics()
	return fallbacksTotal
}

func Anomalies() *prometheus.CounterVec {
	RegisterMetrics()
	return anomaliesTotal
}

func OracleLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return oracleLatency
}

func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}
