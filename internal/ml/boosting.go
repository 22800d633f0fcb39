package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

var (
	// ErrEmptyDataset is returned when a model is fitted on no samples.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrSingleClass is returned when the training labels contain fewer than two classes.
	ErrSingleClass = errors.New("training labels contain fewer than two classes")

	// ErrFeatureCount is returned when a prediction row has the wrong width.
	ErrFeatureCount = errors.New("feature count mismatch")
)

// BoostingParams configures gradient boosting.
type BoostingParams struct {
	Stages       int
	LearningRate float64
	Tree         TreeParams
	Seed         uint64
}

// GradientBoosting is a multinomial-deviance gradient-boosted tree ensemble.
// Each stage holds one regression tree per class; the raw score of class k is
// Init[k] plus LearningRate times the sum of the class-k tree outputs.
type GradientBoosting struct {
	Classes      int
	Features     int
	LearningRate float64
	Init         []float64
	Stages       [][]Tree
}

// FitGradientBoosting trains a gradient-boosted classifier on x with labels
// y in [0, classes). Leaf values take a single Newton step on the deviance.
func FitGradientBoosting(ctx context.Context, x [][]float64, y []int, classes int, p BoostingParams) (*GradientBoosting, error) {
	counts, err := validateLabels(x, y, classes)
	if err != nil {
		return nil, err
	}
	if p.Stages <= 0 || p.LearningRate <= 0 {
		return nil, fmt.Errorf("invalid boosting params: stages=%d learning_rate=%g", p.Stages, p.LearningRate)
	}

	n := len(x)
	g := &GradientBoosting{
		Classes:      classes,
		Features:     len(x[0]),
		LearningRate: p.LearningRate,
		Init:         make([]float64, classes),
		Stages:       make([][]Tree, 0, p.Stages),
	}
	for k, c := range counts {
		// Absent classes get a floor prior rather than log(0).
		g.Init[k] = math.Log(max(float64(c), 1e-8) / float64(n))
	}

	raw := make([][]float64, n)
	for i := range raw {
		raw[i] = slices.Clone(g.Init)
	}

	rng := rand.New(rand.NewPCG(p.Seed, 0x6c6f6f64))
	residual := make([]float64, n)
	probs := make([][]float64, n)
	idx := make([]int, n)
	leaves := make([]int, n)
	scale := float64(classes-1) / float64(classes)

	for m := 0; m < p.Stages; m++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i := range raw {
			probs[i] = softmax(raw[i])
		}

		stage := make([]Tree, classes)
		for k := 0; k < classes; k++ {
			for i := range residual {
				residual[i] = -probs[i][k]
				if y[i] == k {
					residual[i]++
				}
			}
			for i := range idx {
				idx[i] = i
			}
			tree := growTree(x, regressionTargets(residual), idx, p.Tree, rng)

			num := make([]float64, len(tree.Nodes))
			den := make([]float64, len(tree.Nodes))
			for i := range x {
				leaf := tree.Apply(x[i])
				leaves[i] = leaf
				r := residual[i]
				num[leaf] += r
				den[leaf] += math.Abs(r) * (1 - math.Abs(r))
			}
			for j := range tree.Nodes {
				node := &tree.Nodes[j]
				if !node.IsLeaf() {
					continue
				}
				v := 0.0
				if den[j] >= 1e-150 {
					v = scale * num[j] / den[j]
				}
				node.Value = []float64{v}
			}
			for i := range raw {
				raw[i][k] += p.LearningRate * tree.Nodes[leaves[i]].Value[0]
			}
			stage[k] = tree
		}
		g.Stages = append(g.Stages, stage)
	}
	return g, nil
}

// Decision returns the raw per-class scores for x.
func (g *GradientBoosting) Decision(x []float64) ([]float64, error) {
	if len(x) != g.Features {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(x), g.Features)
	}
	f := slices.Clone(g.Init)
	for _, stage := range g.Stages {
		for k := range stage {
			f[k] += g.LearningRate * stage[k].Leaf(x)[0]
		}
	}
	return f, nil
}

// PredictProba returns class probabilities for x.
func (g *GradientBoosting) PredictProba(x []float64) ([]float64, error) {
	f, err := g.Decision(x)
	if err != nil {
		return nil, err
	}
	return softmax(f), nil
}

// Predict returns the most probable class for x.
func (g *GradientBoosting) Predict(x []float64) (int, error) {
	f, err := g.Decision(x)
	if err != nil {
		return 0, err
	}
	return Argmax(f), nil
}

// validateLabels checks shapes and label range and returns per-class counts.
func validateLabels(x [][]float64, y []int, classes int) ([]int, error) {
	if len(x) == 0 {
		return nil, ErrEmptyDataset
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%d rows but %d labels", len(x), len(y))
	}
	width := len(x[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: rows have no features", ErrFeatureCount)
	}
	counts := make([]int, classes)
	for i, label := range y {
		if len(x[i]) != width {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrFeatureCount, i, len(x[i]), width)
		}
		if label < 0 || label >= classes {
			return nil, fmt.Errorf("label %d at row %d outside [0,%d)", label, i, classes)
		}
		counts[label]++
	}
	present := 0
	for _, c := range counts {
		if c > 0 {
			present++
		}
	}
	if present < 2 {
		return nil, ErrSingleClass
	}
	return counts, nil
}

func softmax(f []float64) []float64 {
	hi := slices.Max(f)
	out := make([]float64, len(f))
	var sum float64
	for k, v := range f {
		out[k] = math.Exp(v - hi)
		sum += out[k]
	}
	for k := range out {
		out[k] /= sum
	}
	return out
}

// Argmax returns the index of the largest value, preferring the lowest index on ties.
func Argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
