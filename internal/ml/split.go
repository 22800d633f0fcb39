package ml

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
)

// TrainTestSplit shuffles the indices 0..n-1 with a seeded source and returns
// train and test index sets. The test set holds ceil(n * testFraction) samples.
func TrainTestSplit(n int, testFraction float64, seed uint64) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %g outside (0,1)", testFraction)
	}
	nTest := int(math.Ceil(float64(n) * testFraction))
	if n < 2 || nTest >= n {
		return nil, nil, fmt.Errorf("cannot split %d samples with test fraction %g", n, testFraction)
	}

	rng := rand.New(rand.NewPCG(seed, 0x73706c6974))
	perm := rng.Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// StratifiedSplit splits sample indices so each class keeps its proportion in
// both sets. Every class needs at least two samples: one for each side.
func StratifiedSplit(y []int, testFraction float64, seed uint64) (train, test []int, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction %g outside (0,1)", testFraction)
	}

	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	labels := make([]int, 0, len(byClass))
	for label := range byClass {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	rng := rand.New(rand.NewPCG(seed, 0x7374726174))
	for _, label := range labels {
		members := byClass[label]
		if len(members) < 2 {
			return nil, nil, fmt.Errorf("class %d has %d sample(s); stratified split needs at least 2", label, len(members))
		}
		rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })

		nTest := int(math.Round(float64(len(members)) * testFraction))
		nTest = min(max(nTest, 1), len(members)-1)
		test = append(test, members[:nTest]...)
		train = append(train, members[nTest:]...)
	}

	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	return train, test, nil
}

// Take returns the rows of x at idx.
func Take[T any](x []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = x[j]
	}
	return out
}
