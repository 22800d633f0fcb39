package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flood_api"

// Metrics holds the Prometheus counters, histograms, and gauges for the prediction service.
type Metrics struct {
	Predictions        *prometheus.CounterVec   // labels: model={flood,hazard}, outcome={success,invalid,unavailable,error}
	PredictionDuration *prometheus.HistogramVec // labels: model
	FloodSeverity      *prometheus.CounterVec   // labels: severity={Low,Moderate,High}

	// Model state.
	FloodModelAccuracy    prometheus.Gauge
	FloodTrainingDuration prometheus.Gauge
	HazardModelAvailable  prometheus.Gauge

	HazardCache *prometheus.CounterVec // labels: result={hit,miss}

	// Prediction event publishing.
	EventsPublished    prometheus.Counter
	EventPublishErrors prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Predictions,
		m.PredictionDuration,
		m.FloodSeverity,
		m.FloodModelAccuracy,
		m.FloodTrainingDuration,
		m.HazardModelAvailable,
		m.HazardCache,
		m.EventsPublished,
		m.EventPublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Prediction requests by model and outcome.",
		}, []string{"model", "outcome"}),
		PredictionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "prediction_duration_seconds",
			Help:      "Time spent scoring one prediction request.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"model"}),
		FloodSeverity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flood_severity_total",
			Help:      "Flood predictions by predicted severity.",
		}, []string{"severity"}),
		FloodModelAccuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flood_model_accuracy",
			Help:      "Held-out accuracy of the flood severity model.",
		}),
		FloodTrainingDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flood_training_duration_seconds",
			Help:      "Time taken to generate data and train the flood model at startup.",
		}),
		HazardModelAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hazard_model_available",
			Help:      "1 when the hazard model artifacts loaded, 0 otherwise.",
		}),
		HazardCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hazard_cache_total",
			Help:      "Hazard prediction cache lookups by result.",
		}, []string{"result"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Prediction events handed to the broker.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Prediction events the broker rejected.",
		}),
	}
}
