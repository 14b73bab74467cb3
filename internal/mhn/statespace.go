package mhn

import "math"

// The state space is the power set of the n events, indexed by bitmask.
// With states ordered by integer value every transition x -> x|{i} points
// upward, so the time-marginalized distribution and its adjoint are both
// single triangular solves, O(n^2 * 2^n) total.

// rate returns the hazard of event i in state x: exp of the base rate
// theta_ii plus the multiplicative effects of the events already present.
func rate(theta []float64, n, x, i int) float64 {
	lg := theta[i*n+i]
	for j := 0; j < n; j++ {
		if j != i && x&(1<<uint(j)) != 0 {
			lg += theta[i*n+j]
		}
	}
	return math.Exp(lg)
}

// solve computes the observed-state distribution p and the total exit
// rate s (including the unit observation rate) for every state.
func solve(theta []float64, n int) (p, s []float64) {
	size := 1 << uint(n)
	p = make([]float64, size)
	s = make([]float64, size)
	for x := 0; x < size; x++ {
		exit := 1.0
		for i := 0; i < n; i++ {
			if x&(1<<uint(i)) == 0 {
				exit += rate(theta, n, x, i)
			}
		}
		s[x] = exit

		var inflow float64
		if x == 0 {
			inflow = 1
		}
		for i := 0; i < n; i++ {
			bit := 1 << uint(i)
			if x&bit != 0 {
				prev := x &^ bit
				inflow += rate(theta, n, prev, i) * p[prev]
			}
		}
		p[x] = inflow / exit
	}
	return p, s
}

// Distribution returns the probability of observing each of the 2^n
// states under a classical n x n log-theta matrix.
func Distribution(theta []float64, n int) []float64 {
	p, _ := solve(theta, n)
	return p
}

// LogLikelihood returns the mean per-sample log-likelihood of observed
// state counts under a classical log-theta matrix.
func LogLikelihood(theta []float64, n int, counts []float64) float64 {
	p, _ := solve(theta, n)
	var ll, total float64
	for x, c := range counts {
		if c == 0 {
			continue
		}
		ll += c * math.Log(p[x])
		total += c
	}
	if total == 0 {
		return 0
	}
	return ll / total
}

// Gradient adds the gradient of the mean log-likelihood with respect to
// a classical log-theta matrix into grad (length n*n).
func Gradient(grad, theta []float64, n int, counts []float64) {
	size := 1 << uint(n)
	p, s := solve(theta, n)

	var total float64
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return
	}

	// Adjoint pass: backward substitution of the transposed system,
	// seeded with d(loglik)/dp.
	adj := make([]float64, size)
	for x := size - 1; x >= 0; x-- {
		v := 0.0
		if counts[x] != 0 {
			v = counts[x] / (total * p[x])
		}
		for i := 0; i < n; i++ {
			bit := 1 << uint(i)
			if x&bit == 0 {
				v += rate(theta, n, x, i) * adj[x|bit]
			}
		}
		adj[x] = v / s[x]
	}

	for x := 0; x < size; x++ {
		for k := 0; k < n; k++ {
			bit := 1 << uint(k)
			if x&bit != 0 {
				continue
			}
			w := rate(theta, n, x, k) * p[x] * (adj[x|bit] - adj[x])
			grad[k*n+k] += w
			for l := 0; l < n; l++ {
				if l != k && x&(1<<uint(l)) != 0 {
					grad[k*n+l] += w
				}
			}
		}
	}
}
