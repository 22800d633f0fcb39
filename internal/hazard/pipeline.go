package hazard

import (
	"fmt"

	"github.com/couchcryptid/flood-hazard-service/internal/domain"
	"github.com/couchcryptid/flood-hazard-service/internal/ml"
)

// Pipeline turns hazard features into a model row and scores it. The row is
// the one-hot state block followed by domain.HazardNumericFeatureNames.
type Pipeline struct {
	State  *ml.OneHotEncoder
	Forest *ml.RandomForest
}

// Row builds the forest input for f. Unknown states encode to all zeros.
func (p *Pipeline) Row(f domain.HazardFeatures) []float64 {
	row := make([]float64, 0, p.State.Width()+len(domain.HazardNumericFeatureNames))
	row = p.State.AppendTo(row, f.State)
	return append(row, f.Numeric()...)
}

// PredictProba returns the class distribution for f, indexed by encoded label.
func (p *Pipeline) PredictProba(f domain.HazardFeatures) ([]float64, error) {
	proba, err := p.Forest.PredictProba(p.Row(f))
	if err != nil {
		return nil, fmt.Errorf("score hazard features: %w", err)
	}
	return proba, nil
}
