// Package metrics defines the Prometheus instrumentation for training runs
// and the prediction service, exposed through the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the income classifier.
type Metrics struct {
	// Training metrics
	TrainingRuns      prometheus.Counter   // Total number of training runs started
	TrainingFailures  prometheus.Counter   // Total number of failed training runs
	ModelsEvaluated   prometheus.Counter   // Total number of candidate models evaluated
	TrainingDuration  prometheus.Histogram // Duration of full training runs in seconds
	BestModelAccuracy prometheus.Gauge     // Held-out accuracy of the selected model

	// Prediction metrics
	Predictions       prometheus.Counter   // Total number of predictions served
	PredictionErrors  prometheus.Counter   // Total number of failed prediction requests
	PredictionLatency prometheus.Histogram // Prediction latency in seconds
	ConfidenceScores  prometheus.Histogram // Distribution of prediction confidence scores
	ModelAge          prometheus.Gauge     // Age of the loaded model artifact in seconds
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		TrainingRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "training_runs_total",
			Help: "Total number of training runs started",
		}),
		TrainingFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "training_failures_total",
			Help: "Total number of failed training runs",
		}),
		ModelsEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Name: "models_evaluated_total",
			Help: "Total number of candidate models evaluated",
		}),
		TrainingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "Duration of full training runs in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		BestModelAccuracy: factory.NewGauge(prometheus.GaugeOpts{
			Name: "best_model_accuracy",
			Help: "Held-out accuracy of the selected model",
		}),
		Predictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of predictions served",
		}),
		PredictionErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_errors_total",
			Help: "Total number of failed prediction requests",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "Prediction latency in seconds (end-to-end)",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		ConfidenceScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_confidence_scores",
			Help:    "Distribution of prediction confidence scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		ModelAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "model_age_seconds",
			Help: "Age of the loaded model artifact in seconds",
		}),
	}
}
