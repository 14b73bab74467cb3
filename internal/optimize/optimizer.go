// Package optimize provides the model-fitting surface consumed by the
// reproduction driver: optimizer construction, penalty and data
// configuration, cross-validated lambda selection, and training. The
// numerical minimization itself is delegated to gonum's L-BFGS.
package optimize

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	gopt "gonum.org/v1/gonum/optimize"

	"github.com/cbio-kiel/mhnctl/internal/dataset"
	"github.com/cbio-kiel/mhnctl/internal/mhn"
	"github.com/cbio-kiel/mhnctl/internal/results"
)

// Optimizer accumulates a fitting configuration step by step: variant at
// construction, then penalty, then data, then a training call. The
// ordering is enforced, not assumed: training without a penalty or data
// is an error, never a silent default.
type Optimizer struct {
	variant    mhn.Variant
	penalty    mhn.Penalty
	penaltySet bool
	data       *dataset.Matrix
	rng        *rand.Rand
	result     *results.Result
}

// New constructs an optimizer for the given model variant, seeded with 0.
func New(v mhn.Variant) (*Optimizer, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("unknown model variant %q", v)
	}
	return &Optimizer{variant: v, rng: rand.New(rand.NewSource(0))}, nil
}

// Seed resets the optimizer's random state. Fold assignment during
// lambda selection is the only consumer, so a fixed seed makes the whole
// fit reproducible.
func (o *Optimizer) Seed(seed int64) {
	o.rng = rand.New(rand.NewSource(seed))
}

// SetPenalty selects the regularization term applied during training and
// lambda selection.
func (o *Optimizer) SetPenalty(p mhn.Penalty) error {
	if !p.Valid() {
		return fmt.Errorf("unknown penalty %d", int(p))
	}
	o.penalty = p
	o.penaltySet = true
	return nil
}

// LoadDataFromCSV loads the mutation matrix the optimizer will fit.
func (o *Optimizer) LoadDataFromCSV(path string) error {
	m, err := dataset.Load(path)
	if err != nil {
		return err
	}
	o.data = m
	return nil
}

// SetData supplies an already-loaded matrix.
func (o *Optimizer) SetData(m *dataset.Matrix) {
	o.data = m
}

// Data exposes the loaded matrix.
func (o *Optimizer) Data() *dataset.Matrix {
	return o.data
}

// Result returns the artifact produced by the last Train call, nil
// before any training.
func (o *Optimizer) Result() *results.Result {
	return o.result
}

func (o *Optimizer) ready() error {
	if !o.penaltySet {
		return fmt.Errorf("penalty not set")
	}
	if o.data == nil {
		return fmt.Errorf("no dataset loaded")
	}
	return nil
}

// Train fits the model with regularization strength lam and stores the
// artifact on the optimizer.
func (o *Optimizer) Train(lam float64) (*results.Result, error) {
	if err := o.ready(); err != nil {
		return nil, err
	}
	if lam <= 0 || math.IsNaN(lam) || math.IsInf(lam, 0) {
		return nil, fmt.Errorf("regularization strength %v, need a positive scalar", lam)
	}

	theta, err := fit(o.variant, o.penalty, o.data, lam)
	if err != nil {
		return nil, err
	}

	n := o.data.EventCount()
	o.result = &results.Result{
		Variant: o.variant,
		Events:  append([]string(nil), o.data.Events...),
		Lambda:  lam,
		Theta:   mat.NewDense(o.variant.Rows(n), n, theta),
	}
	return o.result, nil
}

// fit minimizes the penalized negative mean log-likelihood with L-BFGS.
func fit(variant mhn.Variant, pen mhn.Penalty, data *dataset.Matrix, lam float64) ([]float64, error) {
	n := data.EventCount()
	counts := data.Counts()

	problem := gopt.Problem{
		Func: func(x []float64) float64 {
			return objective(x, variant, pen, n, counts, lam)
		},
		Grad: func(grad, x []float64) {
			objectiveGradient(grad, x, variant, pen, n, counts, lam)
		},
	}

	res, err := gopt.Minimize(problem, initialTheta(variant, data), nil, &gopt.LBFGS{})
	if err != nil {
		return nil, fmt.Errorf("%s fit failed: %w", variant, err)
	}
	return res.X, nil
}

func objective(x []float64, variant mhn.Variant, pen mhn.Penalty, n int, counts []float64, lam float64) float64 {
	eff := x
	if variant == mhn.VariantOmega {
		eff = mhn.EffectiveTheta(x, n)
	}
	return -mhn.LogLikelihood(eff, n, counts) + lam*pen.Value(x, n)
}

func objectiveGradient(grad, x []float64, variant mhn.Variant, pen mhn.Penalty, n int, counts []float64, lam float64) {
	for i := range grad {
		grad[i] = 0
	}
	if variant == mhn.VariantOmega {
		eff := mhn.EffectiveTheta(x, n)
		effGrad := make([]float64, n*n)
		mhn.Gradient(effGrad, eff, n, counts)
		floats.Scale(-1, effGrad)
		mhn.AccumulateOmegaGradient(grad, effGrad, n)
	} else {
		mhn.Gradient(grad, x, n, counts)
		floats.Scale(-1, grad)
	}
	pen.AddGradient(grad, x, n, lam)
}

// initialTheta seeds the diagonal with each event's empirical log-odds
// and leaves interactions and the omega row at zero.
func initialTheta(variant mhn.Variant, data *dataset.Matrix) []float64 {
	n := data.EventCount()
	x0 := make([]float64, variant.ParamCount(n))
	for j := 0; j < n; j++ {
		f := data.Frequency(j)
		x0[j*n+j] = math.Log(f / (1 - f))
	}
	return x0
}
