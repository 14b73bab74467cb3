package dataset

import (
	"fmt"
	"math/rand"
)

// Folds assigns each of n samples to one of k cross-validation folds.
// Assignment is a seeded shuffle of a balanced fold sequence, so a fixed
// rng source yields the same partition on every run.
func Folds(n, k int, rng *rand.Rand) ([]int, error) {
	if k < 2 {
		return nil, fmt.Errorf("fold count %d, need at least 2", k)
	}
	if k > n {
		return nil, fmt.Errorf("fold count %d exceeds sample count %d", k, n)
	}
	assign := make([]int, n)
	for i := range assign {
		assign[i] = i % k
	}
	rng.Shuffle(n, func(i, j int) {
		assign[i], assign[j] = assign[j], assign[i]
	})
	return assign, nil
}

// Split partitions the matrix into the training subset outside the given
// fold and the held-out subset inside it. Both share the event columns.
func (m *Matrix) Split(assign []int, fold int) (train, held *Matrix) {
	train = &Matrix{Events: m.Events}
	held = &Matrix{Events: m.Events}
	for i, s := range m.Samples {
		if assign[i] == fold {
			held.Samples = append(held.Samples, s)
		} else {
			train.Samples = append(train.Samples, s)
		}
	}
	return train, held
}
