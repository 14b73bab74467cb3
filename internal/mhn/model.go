// Package mhn implements the Mutual Hazard Network model core: the
// log-theta parameterization, the exact state-space distribution over
// event subsets, the data log-likelihood and its gradient, and the
// regularization penalties used during fitting.
package mhn

// Variant selects the model parameterization.
type Variant string

const (
	// VariantClassical is the classical state-space MHN: an n x n
	// log-theta matrix with constant observation rate.
	VariantClassical Variant = "cMHN"
	// VariantOmega adds a row of per-event observation-rate effects
	// (the omega row) below the n x n interaction block.
	VariantOmega Variant = "oMHN"
)

func (v Variant) Valid() bool {
	return v == VariantClassical || v == VariantOmega
}

// Rows reports the parameter-row count for n events; the omega variant
// carries one extra row of observation rates.
func (v Variant) Rows(n int) int {
	if v == VariantOmega {
		return n + 1
	}
	return n
}

// ParamCount reports the flattened parameter length for n events.
func (v Variant) ParamCount(n int) int {
	return v.Rows(n) * n
}

// EffectiveTheta reduces an omega parameterization to the classical n x n
// matrix with the same observed distribution. The observation rate of a
// state divides every competing hazard, which shifts each off-diagonal
// column j by the omega entry for event j.
func EffectiveTheta(full []float64, n int) []float64 {
	eff := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := full[i*n+j]
			if i != j {
				v -= full[n*n+j]
			}
			eff[i*n+j] = v
		}
	}
	return eff
}

// AccumulateOmegaGradient maps a gradient taken with respect to the
// effective classical matrix back onto the omega parameterization.
func AccumulateOmegaGradient(grad, effGrad []float64, n int) {
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			grad[i*n+j] += effGrad[i*n+j]
			if i != j {
				grad[n*n+j] -= effGrad[i*n+j]
			}
		}
	}
}
