package hazard

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	"github.com/couchcryptid/flood-hazard-service/internal/ml"
)

// Artifact file names and the kinds recorded in their headers.
const (
	ModelFile   = "hazard_model.pkl"
	EncoderFile = "hazard_label_encoder.pkl"

	modelKind   = "hazard-pipeline"
	encoderKind = "hazard-label-encoder"
)

// TrainOptions configures hazard model training.
type TrainOptions struct {
	Trees        int
	TestFraction float64
	Seed         uint64

	// Workers bounds parallel tree fitting. 0 means GOMAXPROCS.
	Workers int
}

// DefaultTrainOptions returns the production settings: 200 class-balanced
// trees and a stratified 70/30 split, both seeded with 42.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Trees:        200,
		TestFraction: 0.3,
		Seed:         42,
	}
}

// Result is the outcome of a training run.
type Result struct {
	Pipeline  *Pipeline
	Encoder   *ml.LabelEncoder
	TrainSize int
	TestSize  int
	Report    ml.Report
}

// Train fits the hazard pipeline on samples and scores it on a stratified
// held-out split.
func Train(ctx context.Context, samples []domain.HazardSample, opts TrainOptions) (*Result, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("train hazard model: %w", ml.ErrEmptyDataset)
	}

	labels := make([]string, len(samples))
	for i, s := range samples {
		labels[i] = s.Label
	}
	enc := ml.FitLabelEncoder(labels)
	y, err := enc.EncodeAll(labels)
	if err != nil {
		return nil, fmt.Errorf("train hazard model: %w", err)
	}

	trainIdx, testIdx, err := ml.StratifiedSplit(y, opts.TestFraction, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("train hazard model: split: %w", err)
	}

	// The state vocabulary comes from the training rows only; states seen
	// only in the test split score as unknown.
	trainStates := make([]string, len(trainIdx))
	for i, j := range trainIdx {
		trainStates[i] = samples[j].State
	}
	p := &Pipeline{State: ml.FitOneHot(trainStates)}

	x := make([][]float64, len(samples))
	for i, s := range samples {
		x[i] = p.Row(s.HazardFeatures)
	}

	p.Forest, err = ml.FitRandomForest(ctx, ml.Take(x, trainIdx), ml.Take(y, trainIdx), enc.Len(), ml.ForestParams{
		Trees:    opts.Trees,
		Seed:     opts.Seed,
		Balanced: true,
		Workers:  opts.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("train hazard model: %w", err)
	}

	truth := ml.Take(y, testIdx)
	pred := make([]int, len(testIdx))
	for i, j := range testIdx {
		if pred[i], err = p.Forest.Predict(x[j]); err != nil {
			return nil, fmt.Errorf("score hazard model: %w", err)
		}
	}

	return &Result{
		Pipeline:  p,
		Encoder:   enc,
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
		Report:    ml.ClassificationReport(truth, pred, enc.Classes),
	}, nil
}

// SaveArtifacts writes the pipeline and label encoder into dir as ModelFile
// and EncoderFile.
func (r *Result) SaveArtifacts(dir string) (modelPath, encoderPath string, err error) {
	modelPath = filepath.Join(dir, ModelFile)
	encoderPath = filepath.Join(dir, EncoderFile)

	if err := ml.SaveArtifact(modelPath, modelKind, r.Pipeline); err != nil {
		return "", "", err
	}
	if err := ml.SaveArtifact(encoderPath, encoderKind, r.Encoder); err != nil {
		return "", "", err
	}
	return modelPath, encoderPath, nil
}
