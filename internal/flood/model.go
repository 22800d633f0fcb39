package flood

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	"github.com/couchcryptid/flood-hazard-service/internal/ml"
)

// TrainOptions configures flood model training.
type TrainOptions struct {
	Stages       int
	LearningRate float64
	MaxDepth     int
	TestFraction float64
	Seed         uint64
}

// DefaultTrainOptions returns the production settings: 200 boosting stages,
// learning rate 0.05, depth-3 trees, a 70/30 split, seed 42.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Stages:       200,
		LearningRate: 0.05,
		MaxDepth:     3,
		TestFraction: 0.3,
		Seed:         42,
	}
}

// Model is a trained flood severity classifier. It is immutable after Train
// returns and safe for concurrent use.
type Model struct {
	gb           *ml.GradientBoosting
	accuracy     float64
	samples      int
	trainedAt    time.Time
	distribution [domain.SeverityClasses]int
}

// Train fits the severity classifier on samples and scores it once on the
// held-out split. Any error here leaves the service without a flood model.
func Train(ctx context.Context, samples []domain.FloodSample, opts TrainOptions) (*Model, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("train flood model: %w", ml.ErrEmptyDataset)
	}

	x := make([][]float64, len(samples))
	y := make([]int, len(samples))
	for i, s := range samples {
		x[i] = s.Vector()
		y[i] = int(s.Severity)
	}

	train, test, err := ml.TrainTestSplit(len(samples), opts.TestFraction, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("train flood model: %w", err)
	}

	gb, err := ml.FitGradientBoosting(ctx, ml.Take(x, train), ml.Take(y, train), domain.SeverityClasses, ml.BoostingParams{
		Stages:       opts.Stages,
		LearningRate: opts.LearningRate,
		Tree:         ml.TreeParams{MaxDepth: opts.MaxDepth},
		Seed:         opts.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("train flood model: %w", err)
	}

	pred := make([]int, len(test))
	for i, j := range test {
		if pred[i], err = gb.Predict(x[j]); err != nil {
			return nil, fmt.Errorf("score flood model: %w", err)
		}
	}

	return &Model{
		gb:           gb,
		accuracy:     ml.Accuracy(ml.Take(y, test), pred),
		samples:      len(samples),
		trainedAt:    domain.Now().UTC(),
		distribution: Distribution(samples),
	}, nil
}

// Predict returns the severity class for live measurements. TBA_Alert is
// recomputed from the measurements with domain.TBAAlert.
func (m *Model) Predict(f domain.FloodFeatures) (domain.Severity, error) {
	return m.PredictRow(f.Vector())
}

// PredictRow classifies a prepared 7-column row in domain.FloodFeatureNames order.
func (m *Model) PredictRow(row []float64) (domain.Severity, error) {
	k, err := m.gb.Predict(row)
	if err != nil {
		return 0, fmt.Errorf("predict flood severity: %w", err)
	}
	return domain.Severity(k), nil
}

// Proba returns per-class probabilities for live measurements.
func (m *Model) Proba(f domain.FloodFeatures) ([]float64, error) {
	p, err := m.gb.PredictProba(f.Vector())
	if err != nil {
		return nil, fmt.Errorf("predict flood severity: %w", err)
	}
	return p, nil
}

// Accuracy returns the held-out accuracy measured at training time.
func (m *Model) Accuracy() float64 { return m.accuracy }

// Info describes the trained model.
func (m *Model) Info() domain.FloodModelInfo {
	dist := make(map[string]int, domain.SeverityClasses)
	for k, c := range m.distribution {
		dist[domain.Severity(k).String()] = c
	}
	return domain.FloodModelInfo{
		Accuracy:     m.accuracy,
		Samples:      m.samples,
		TrainedAt:    m.trainedAt,
		Distribution: dist,
	}
}
