// Package predict holds the process-wide prediction service: the trained
// flood model, the optional hazard model, and the event publisher that
// records every successful prediction.
package predict

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	"github.com/couchcryptid/flood-hazard-service/internal/observability"
)

// ErrHazardUnavailable is returned for hazard predictions when the hazard
// artifacts failed to load at startup.
var ErrHazardUnavailable = errors.New("hazard model not available on server")

// Prediction outcomes recorded in the predictions_total metric.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// FloodClassifier scores flood measurements.
type FloodClassifier interface {
	Predict(f domain.FloodFeatures) (domain.Severity, error)
	Accuracy() float64
	Info() domain.FloodModelInfo
}

// HazardClassifier scores regional hazard features.
type HazardClassifier interface {
	Predict(f domain.HazardFeatures) (domain.HazardPrediction, error)
	Labels() []string
}

// EventPublisher hands prediction events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.PredictionEvent) error
}

// Service answers prediction requests. Models are fixed at construction.
type Service struct {
	flood   FloodClassifier
	hazard  HazardClassifier
	events  EventPublisher
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Service. hazard and events may be nil: a nil hazard model
// makes every hazard prediction fail with ErrHazardUnavailable, and a nil
// publisher disables prediction events.
func New(flood FloodClassifier, hazard HazardClassifier, events EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	s := &Service{
		flood:   flood,
		hazard:  hazard,
		events:  events,
		logger:  logger,
		metrics: metrics,
	}
	metrics.FloodModelAccuracy.Set(flood.Accuracy())
	if hazard != nil {
		metrics.HazardModelAvailable.Set(1)
	} else {
		metrics.HazardModelAvailable.Set(0)
	}
	return s
}

// PredictFlood classifies one flood observation. The alert flag is
// recomputed from the measurements and the cached model accuracy is
// attached, rounded to three decimals.
func (s *Service) PredictFlood(ctx context.Context, f domain.FloodFeatures) (domain.FloodPrediction, error) {
	start := time.Now()
	sev, err := s.flood.Predict(f)
	s.metrics.PredictionDuration.WithLabelValues(domain.ModelFlood).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Predictions.WithLabelValues(domain.ModelFlood, OutcomeError).Inc()
		return domain.FloodPrediction{}, err
	}

	out := domain.FloodPrediction{
		SeverityIndex: int(sev),
		SeverityLabel: sev.String(),
		TBAAlert:      f.Alert(),
		ModelAccuracy: round3(s.flood.Accuracy()),
	}
	s.metrics.Predictions.WithLabelValues(domain.ModelFlood, OutcomeSuccess).Inc()
	s.metrics.FloodSeverity.WithLabelValues(out.SeverityLabel).Inc()
	s.publish(ctx, domain.ModelFlood, f, out)
	return out, nil
}

// HazardAvailable reports whether a hazard model is loaded.
func (s *Service) HazardAvailable() bool {
	return s.hazard != nil
}

// PredictHazard classifies one region. Confidence is rounded to three decimals.
func (s *Service) PredictHazard(ctx context.Context, f domain.HazardFeatures) (domain.HazardPrediction, error) {
	if s.hazard == nil {
		s.metrics.Predictions.WithLabelValues(domain.ModelHazard, OutcomeUnavailable).Inc()
		return domain.HazardPrediction{}, ErrHazardUnavailable
	}

	start := time.Now()
	out, err := s.hazard.Predict(f)
	s.metrics.PredictionDuration.WithLabelValues(domain.ModelHazard).Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Predictions.WithLabelValues(domain.ModelHazard, OutcomeError).Inc()
		return domain.HazardPrediction{}, err
	}

	out.Confidence = round3(out.Confidence)
	s.metrics.Predictions.WithLabelValues(domain.ModelHazard, OutcomeSuccess).Inc()
	s.publish(ctx, domain.ModelHazard, f, out)
	return out, nil
}

// Reject records a request turned away before reaching a model, with
// OutcomeInvalid or OutcomeUnavailable.
func (s *Service) Reject(model, outcome string) {
	s.metrics.Predictions.WithLabelValues(model, outcome).Inc()
}

// Info describes the loaded models.
func (s *Service) Info() domain.ModelInfo {
	info := domain.ModelInfo{Flood: s.flood.Info()}
	if s.hazard != nil {
		info.Hazard = domain.HazardModelInfo{Available: true, Labels: s.hazard.Labels()}
	}
	return info
}

// CheckReadiness returns nil once the flood model is in place. A missing
// hazard model does not make the service unready; flood predictions still work.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.flood == nil {
		return errors.New("flood model is not trained")
	}
	return nil
}

// publish records a successful prediction. Failures are logged and counted,
// never returned to the caller.
func (s *Service) publish(ctx context.Context, model string, input, output any) {
	if s.events == nil {
		return
	}
	ev, err := domain.NewPredictionEvent(model, input, output)
	if err != nil {
		s.metrics.EventPublishErrors.Inc()
		s.logger.Warn("build prediction event failed", "model", model, "error", err)
		return
	}
	if err := s.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.metrics.EventPublishErrors.Inc()
		s.logger.Warn("publish prediction event failed", "model", model, "event_id", ev.ID, "error", err)
		return
	}
	s.metrics.EventsPublished.Inc()
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
