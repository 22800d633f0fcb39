package ml

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ForestParams configures a random forest.
type ForestParams struct {
	Trees int
	Seed  uint64

	// Balanced weights each class by n / (present_classes * count), so rare
	// classes carry as much total weight as common ones.
	Balanced bool

	// Tree bounds each tree. MaxFeatures 0 means floor(sqrt(features)).
	Tree TreeParams

	// Workers bounds concurrent tree fitting. 0 means GOMAXPROCS.
	Workers int
}

// RandomForest is a bagged ensemble of classification trees. Leaves hold
// weighted class distributions; the forest averages them.
type RandomForest struct {
	Classes  int
	Features int
	Trees    []Tree
}

// FitRandomForest trains a random forest on x with labels y in [0, classes).
// Every tree is fitted on its own bootstrap sample with its own seeded source,
// so the result does not depend on goroutine scheduling.
func FitRandomForest(ctx context.Context, x [][]float64, y []int, classes int, p ForestParams) (*RandomForest, error) {
	counts, err := validateLabels(x, y, classes)
	if err != nil {
		return nil, err
	}
	if p.Trees <= 0 {
		return nil, fmt.Errorf("invalid forest params: trees=%d", p.Trees)
	}

	n := len(x)
	nFeatures := len(x[0])
	params := p.Tree
	if params.MaxFeatures <= 0 {
		params.MaxFeatures = max(1, int(math.Sqrt(float64(nFeatures))))
	}
	classWeight := ClassWeights(counts, p.Balanced)

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	trees := make([]Tree, p.Trees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for t := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(p.Seed, uint64(t)+1))

			drawn := make([]int, n)
			for range n {
				drawn[rng.IntN(n)]++
			}
			w := make([]float64, n)
			idx := make([]int, 0, n)
			for i, c := range drawn {
				if c == 0 {
					continue
				}
				w[i] = float64(c) * classWeight[y[i]]
				idx = append(idx, i)
			}

			trees[t] = growTree(x, classTargets(y, w, classes), idx, params, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &RandomForest{Classes: classes, Features: nFeatures, Trees: trees}, nil
}

// ClassWeights returns per-class sample weights. Unbalanced weights are all 1;
// balanced weights are n / (present * count_k), 0 for absent classes.
func ClassWeights(counts []int, balanced bool) []float64 {
	w := make([]float64, len(counts))
	var n, present int
	for _, c := range counts {
		n += c
		if c > 0 {
			present++
		}
	}
	for k, c := range counts {
		switch {
		case !balanced:
			w[k] = 1
		case c > 0:
			w[k] = float64(n) / float64(present*c)
		}
	}
	return w
}

// PredictProba returns the averaged class distribution for x.
func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.Features {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFeatureCount, len(x), f.Features)
	}
	proba := make([]float64, f.Classes)
	for i := range f.Trees {
		for k, v := range f.Trees[i].Leaf(x) {
			proba[k] += v
		}
	}
	for k := range proba {
		proba[k] /= float64(len(f.Trees))
	}
	return proba, nil
}

// Predict returns the most probable class for x.
func (f *RandomForest) Predict(x []float64) (int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}
	return Argmax(proba), nil
}
