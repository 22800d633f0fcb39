// Package ml implements the tree ensembles used by the flood and hazard
// classifiers: CART decision trees, multinomial gradient boosting and a
// class-weighted random forest, plus the encoders, dataset splits, metrics
// and artifact IO around them.
//
// Fitted models are plain data (exported fields, no function values) so they
// can be gob-encoded as artifacts and shared read-only between goroutines.
package ml

import (
	"cmp"
	"math/rand/v2"
	"slices"
)

// Node is one node of a binary decision tree. Leaves have Feature == -1 and
// carry Value: class probabilities for classification trees, a single output
// for regression trees.
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     []float64
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return n.Feature < 0 }

// Tree is a fitted CART tree stored as a flat node slice rooted at Nodes[0].
// Samples with x[Feature] <= Threshold go left.
type Tree struct {
	Nodes []Node
}

// Apply returns the index of the leaf x falls into.
func (t *Tree) Apply(x []float64) int {
	i := 0
	for {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			return i
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// Leaf returns the value of the leaf x falls into.
func (t *Tree) Leaf(x []float64) []float64 {
	return t.Nodes[t.Apply(x)].Value
}

// Depth returns the length of the longest root-to-leaf path.
func (t *Tree) Depth() int {
	var walk func(i int) int
	walk = func(i int) int {
		n := &t.Nodes[i]
		if n.IsLeaf() {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

// TreeParams bounds tree growth.
type TreeParams struct {
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int // defaults to 2
	MinSamplesLeaf  int // defaults to 1
	MaxFeatures     int // features examined per split; 0 means all
}

func (p TreeParams) withDefaults() TreeParams {
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = 2
	}
	if p.MinSamplesLeaf < 1 {
		p.MinSamplesLeaf = 1
	}
	return p
}

// targets describes what each training sample adds to node statistics.
// A node's statistics are a vector of dim sums plus a total weight; sample i
// adds val[i] to slot slot[i] and weight[i] to the total. For classification
// the slot is the class and val the sample weight; for regression the slot is
// always 0 and val the target. Both criteria then reduce to maximizing
// sum_k s_k^2 / w over the two children (gini and squared error respectively).
type targets struct {
	dim    int
	slot   []int
	val    []float64
	weight []float64
}

func classTargets(y []int, w []float64, classes int) targets {
	return targets{dim: classes, slot: y, val: w, weight: w}
}

func regressionTargets(r []float64) targets {
	ones := make([]float64, len(r))
	for i := range ones {
		ones[i] = 1
	}
	return targets{dim: 1, slot: make([]int, len(r)), val: r, weight: ones}
}

type treeBuilder struct {
	x      [][]float64
	t      targets
	params TreeParams
	rng    *rand.Rand
	nodes  []Node

	sorted []int
	left   []float64
}

// growTree fits a tree on the samples listed in idx. idx is reordered in place.
func growTree(x [][]float64, t targets, idx []int, params TreeParams, rng *rand.Rand) Tree {
	tb := &treeBuilder{
		x:      x,
		t:      t,
		params: params.withDefaults(),
		rng:    rng,
		sorted: make([]int, len(idx)),
		left:   make([]float64, t.dim),
	}
	tb.grow(idx, 0)
	return Tree{Nodes: tb.nodes}
}

func (tb *treeBuilder) stats(idx []int) ([]float64, float64) {
	sums := make([]float64, tb.t.dim)
	var w float64
	for _, i := range idx {
		sums[tb.t.slot[i]] += tb.t.val[i]
		w += tb.t.weight[i]
	}
	return sums, w
}

func (tb *treeBuilder) grow(idx []int, depth int) int {
	sums, w := tb.stats(idx)
	id := len(tb.nodes)
	tb.nodes = append(tb.nodes, Node{Feature: -1, Left: -1, Right: -1, Value: leafValue(sums, w)})

	p := tb.params
	if (p.MaxDepth > 0 && depth >= p.MaxDepth) ||
		len(idx) < p.MinSamplesSplit ||
		len(idx) < 2*p.MinSamplesLeaf ||
		w <= 0 {
		return id
	}

	sp, ok := tb.bestSplit(idx, sums, w)
	if !ok {
		return id
	}

	leftIdx, rightIdx := partition(tb.x, idx, sp.feature, sp.threshold)
	l := tb.grow(leftIdx, depth+1)
	r := tb.grow(rightIdx, depth+1)

	n := &tb.nodes[id]
	n.Feature = sp.feature
	n.Threshold = sp.threshold
	n.Left = l
	n.Right = r
	n.Value = nil
	return id
}

type split struct {
	feature   int
	threshold float64
	score     float64
}

func (tb *treeBuilder) bestSplit(idx []int, total []float64, w float64) (split, bool) {
	parent := squaredSum(total) / w
	best := split{feature: -1, score: parent + 1e-12*max(1, parent)}

	nFeatures := len(tb.x[idx[0]])
	sorted := tb.sorted[:len(idx)]
	left := tb.left
	minLeaf := tb.params.MinSamplesLeaf

	examined := 0
	for _, f := range tb.rng.Perm(nFeatures) {
		if tb.params.MaxFeatures > 0 && examined >= tb.params.MaxFeatures {
			break
		}
		if constantFeature(tb.x, idx, f) {
			continue
		}
		examined++

		copy(sorted, idx)
		slices.SortFunc(sorted, func(a, b int) int { return cmp.Compare(tb.x[a][f], tb.x[b][f]) })

		clear(left)
		var wl float64
		for p := 0; p < len(sorted)-1; p++ {
			i := sorted[p]
			left[tb.t.slot[i]] += tb.t.val[i]
			wl += tb.t.weight[i]

			v, next := tb.x[i][f], tb.x[sorted[p+1]][f]
			if v == next {
				continue
			}
			nl := p + 1
			if nl < minLeaf || len(sorted)-nl < minLeaf {
				continue
			}
			wr := w - wl
			if wl <= 0 || wr <= 0 {
				continue
			}

			var rightSq float64
			for k, s := range total {
				d := s - left[k]
				rightSq += d * d
			}
			score := squaredSum(left)/wl + rightSq/wr
			if score > best.score {
				thr := v + (next-v)/2
				if thr >= next {
					thr = v
				}
				best = split{feature: f, threshold: thr, score: score}
			}
		}
	}
	return best, best.feature >= 0
}

func constantFeature(x [][]float64, idx []int, f int) bool {
	first := x[idx[0]][f]
	for _, i := range idx[1:] {
		if x[i][f] != first {
			return false
		}
	}
	return true
}

func partition(x [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	i, j := 0, len(idx)-1
	for i <= j {
		if x[idx[i]][f] <= thr {
			i++
			continue
		}
		idx[i], idx[j] = idx[j], idx[i]
		j--
	}
	return idx[:i], idx[i:]
}

func leafValue(sums []float64, w float64) []float64 {
	v := make([]float64, len(sums))
	if w <= 0 {
		return v
	}
	for k, s := range sums {
		v[k] = s / w
	}
	return v
}

func squaredSum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return s
}
