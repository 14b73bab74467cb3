package mhn

import (
	"math"
	"testing"
)

func TestSymSparseValueSymmetric(t *testing.T) {
	n := 3
	theta := make([]float64, n*n)
	theta[0*n+1] = 0.6
	theta[1*n+0] = -0.8
	theta[0*n+0] = 5 // diagonal must not contribute

	got := PenaltySymSparse.Value(theta, n)
	want := math.Sqrt(0.6*0.6 + 0.8*0.8 + symSparseEps)
	if math.Abs(got-want) > tol {
		t.Fatalf("penalty value %v, want %v", got, want)
	}

	// Swapping the pair leaves the value unchanged.
	theta[0*n+1], theta[1*n+0] = theta[1*n+0], theta[0*n+1]
	if math.Abs(PenaltySymSparse.Value(theta, n)-want) > tol {
		t.Fatalf("penalty not symmetric in pairs")
	}
}

func TestSymSparseIgnoresOmegaRow(t *testing.T) {
	n := 2
	full := make([]float64, VariantOmega.ParamCount(n))
	full[n*n+0] = 3
	full[n*n+1] = -4

	if got := PenaltySymSparse.Value(full, n); got > 1e-4 {
		t.Fatalf("omega row penalized: %v", got)
	}

	grad := make([]float64, len(full))
	PenaltySymSparse.AddGradient(grad, full, n, 1)
	if grad[n*n+0] != 0 || grad[n*n+1] != 0 {
		t.Fatalf("omega row gradient touched: %v", grad)
	}
}

func TestSymSparseGradientMatchesFiniteDifferences(t *testing.T) {
	n := 3
	theta := []float64{
		0.1, 0.7, -0.2,
		-0.4, 0.3, 0.9,
		0.5, -0.6, -0.1,
	}
	lam := 0.25

	grad := make([]float64, n*n)
	PenaltySymSparse.AddGradient(grad, theta, n, lam)

	const h = 1e-7
	for k := range theta {
		up := append([]float64(nil), theta...)
		down := append([]float64(nil), theta...)
		up[k] += h
		down[k] -= h
		numeric := lam * (PenaltySymSparse.Value(up, n) - PenaltySymSparse.Value(down, n)) / (2 * h)
		if math.Abs(grad[k]-numeric) > 1e-5 {
			t.Fatalf("penalty gradient[%d] = %v, finite difference %v", k, grad[k], numeric)
		}
	}
}

func TestPenaltyStrings(t *testing.T) {
	if PenaltySymSparse.String() != "sym_sparse" {
		t.Fatalf("unexpected name: %s", PenaltySymSparse)
	}
	if !PenaltyNone.Valid() || Penalty(99).Valid() {
		t.Fatalf("validity checks broken")
	}
}
