package mhn

import (
	"fmt"
	"math"
)

// Penalty enumerates the regularization terms available during fitting.
type Penalty int

const (
	// PenaltyNone disables regularization.
	PenaltyNone Penalty = iota
	// PenaltySymSparse is a group-L1 penalty over symmetric off-diagonal
	// pairs (theta_ij, theta_ji): either an interaction pair is present
	// or the whole pair is driven to zero. Base rates and the omega row
	// are unpenalized.
	PenaltySymSparse
)

// symSparseEps smooths the group norm at the origin so the objective
// stays differentiable for the quasi-Newton fitter.
const symSparseEps = 1e-10

func (p Penalty) String() string {
	switch p {
	case PenaltyNone:
		return "none"
	case PenaltySymSparse:
		return "sym_sparse"
	default:
		return fmt.Sprintf("penalty(%d)", int(p))
	}
}

func (p Penalty) Valid() bool {
	return p == PenaltyNone || p == PenaltySymSparse
}

// Value evaluates the penalty on the first n rows of a log-theta matrix
// with row stride n; an omega row beyond those rows is left out.
func (p Penalty) Value(theta []float64, n int) float64 {
	if p != PenaltySymSparse {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := theta[i*n+j], theta[j*n+i]
			sum += math.Sqrt(a*a + b*b + symSparseEps)
		}
	}
	return sum
}

// AddGradient adds lam times the penalty gradient into grad.
func (p Penalty) AddGradient(grad, theta []float64, n int, lam float64) {
	if p != PenaltySymSparse {
		return
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := theta[i*n+j], theta[j*n+i]
			norm := math.Sqrt(a*a + b*b + symSparseEps)
			grad[i*n+j] += lam * a / norm
			grad[j*n+i] += lam * b / norm
		}
	}
}
