package hazard

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	"github.com/couchcryptid/flood-hazard-service/internal/ml"
)

// Predictor serves hazard predictions from loaded artifacts. It is read-only
// after Load and safe for concurrent use.
type Predictor struct {
	pipeline *Pipeline
	encoder  *ml.LabelEncoder
}

// NewPredictor pairs a pipeline with the label encoder it was trained with.
func NewPredictor(p *Pipeline, enc *ml.LabelEncoder) (*Predictor, error) {
	if p == nil || p.State == nil || p.Forest == nil {
		return nil, errors.New("hazard pipeline is incomplete")
	}
	if enc == nil || enc.Len() == 0 {
		return nil, errors.New("hazard label encoder is empty")
	}
	if p.Forest.Classes != enc.Len() {
		return nil, fmt.Errorf("hazard model has %d classes but label encoder has %d", p.Forest.Classes, enc.Len())
	}
	if want := p.State.Width() + len(domain.HazardNumericFeatureNames); p.Forest.Features != want {
		return nil, fmt.Errorf("hazard model expects %d features, pipeline builds %d", p.Forest.Features, want)
	}
	return &Predictor{pipeline: p, encoder: enc}, nil
}

// Load reads the model and label encoder artifacts written by SaveArtifacts.
func Load(modelPath, encoderPath string) (*Predictor, error) {
	var p Pipeline
	if err := ml.LoadArtifact(modelPath, modelKind, &p); err != nil {
		return nil, fmt.Errorf("load hazard model: %w", err)
	}
	var enc ml.LabelEncoder
	if err := ml.LoadArtifact(encoderPath, encoderKind, &enc); err != nil {
		return nil, fmt.Errorf("load hazard label encoder: %w", err)
	}
	pred, err := NewPredictor(&p, &enc)
	if err != nil {
		return nil, fmt.Errorf("load hazard model: %w", err)
	}
	return pred, nil
}

// Predict returns the most probable hazard label for f and its probability.
func (p *Predictor) Predict(f domain.HazardFeatures) (domain.HazardPrediction, error) {
	proba, err := p.pipeline.PredictProba(f)
	if err != nil {
		return domain.HazardPrediction{}, err
	}
	k := ml.Argmax(proba)
	label, err := p.encoder.Decode(k)
	if err != nil {
		return domain.HazardPrediction{}, fmt.Errorf("decode hazard label: %w", err)
	}
	return domain.HazardPrediction{Label: label, Confidence: proba[k]}, nil
}

// Labels returns the hazard vocabulary in encoded order.
func (p *Predictor) Labels() []string {
	return append([]string(nil), p.encoder.Classes...)
}

// KnownState reports whether state was part of the training vocabulary.
func (p *Predictor) KnownState(state string) bool {
	return p.pipeline.State.Known(state)
}
