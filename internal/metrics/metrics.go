// Package metrics provides Prometheus metrics collection for the diabetes
// prediction service. All collectors are registered once at startup and
// exposed on the dedicated metrics port.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	// Request pipeline metrics
	PredictionsTotal   prometheus.Counter   // Successful predictions served
	ValidationFailures prometheus.Counter   // Requests rejected by field validation
	InferenceFailures  prometheus.Counter   // Requests failed inside the inference engine
	MalformedRequests  prometheus.Counter   // Requests with missing or unparseable bodies
	PredictionLatency  prometheus.Histogram // End-to-end pipeline latency in seconds
	ConfidenceScores   prometheus.Histogram // Distribution of confidence-in-label scores

	// Transport and system metrics
	WSClients   prometheus.Gauge   // Connected live-feed WebSocket clients
	AuditErrors prometheus.Counter // Failed writes to the prediction audit log
	ModelAge    prometheus.Gauge   // Age of the loaded artifacts in seconds
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry, which keeps test
// collection isolated from the global state.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of successful predictions served",
		}),
		ValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "validation_failures_total",
			Help: "Total number of requests rejected by field validation",
		}),
		InferenceFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "inference_failures_total",
			Help: "Total number of requests that failed in the inference engine",
		}),
		MalformedRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "malformed_requests_total",
			Help: "Total number of requests with missing or unparseable JSON bodies",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "End-to-end prediction pipeline latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		ConfidenceScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "confidence_scores",
			Help:    "Distribution of confidence-in-label scores",
			Buckets: prometheus.LinearBuckets(0.5, 0.05, 11),
		}),
		WSClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ws_clients",
			Help: "Number of connected live-feed WebSocket clients",
		}),
		AuditErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "audit_errors_total",
			Help: "Total number of failed writes to the prediction audit log",
		}),
		ModelAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "model_age_seconds",
			Help: "Age of the loaded model artifacts in seconds",
		}),
	}
}
