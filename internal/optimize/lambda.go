package optimize

import (
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/cbio-kiel/mhnctl/internal/dataset"
	"github.com/cbio-kiel/mhnctl/internal/mhn"
)

// LambdaOptions configures the cross-validated grid search for the
// regularization strength. Zero values take the defaults.
type LambdaOptions struct {
	Min      float64
	Max      float64
	Steps    int
	Folds    int
	Workers  int
	Progress bool
}

const (
	defaultLambdaMin   = 1e-4
	defaultLambdaMax   = 1e-1
	defaultLambdaSteps = 9
	defaultLambdaFolds = 5
)

func (o LambdaOptions) withDefaults() LambdaOptions {
	if o.Min == 0 {
		o.Min = defaultLambdaMin
	}
	if o.Max == 0 {
		o.Max = defaultLambdaMax
	}
	if o.Steps == 0 {
		o.Steps = defaultLambdaSteps
	}
	if o.Folds == 0 {
		o.Folds = defaultLambdaFolds
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

func (o LambdaOptions) validate() error {
	if o.Min <= 0 {
		return fmt.Errorf("lambda min %v, need > 0", o.Min)
	}
	if o.Max < o.Min {
		return fmt.Errorf("lambda max %v below min %v", o.Max, o.Min)
	}
	if o.Steps < 1 {
		return fmt.Errorf("lambda steps %d, need at least 1", o.Steps)
	}
	if o.Workers < 1 {
		return fmt.Errorf("lambda workers %d, need at least 1", o.Workers)
	}
	return nil
}

// FindLambda selects a regularization strength by k-fold cross-validated
// grid search: every candidate is fitted on each training split and
// scored by mean held-out log-likelihood; the best mean wins, ties going
// to the smaller lambda. Folds are fitted concurrently under a bounded
// errgroup; scores land in fixed grid slots, so the winner does not
// depend on completion order.
func (o *Optimizer) FindLambda(opts LambdaOptions) (float64, error) {
	if err := o.ready(); err != nil {
		return 0, err
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return 0, err
	}

	grid := logspace(opts.Min, opts.Max, opts.Steps)
	assign, err := dataFolds(o, opts.Folds)
	if err != nil {
		return 0, err
	}

	scores := make([][]float64, len(grid))
	for i := range scores {
		scores[i] = make([]float64, opts.Folds)
	}

	g := new(errgroup.Group)
	g.SetLimit(opts.Workers)
	for si := range grid {
		for fold := 0; fold < opts.Folds; fold++ {
			si, fold := si, fold
			lam := grid[si]
			g.Go(func() error {
				train, held := o.data.Split(assign, fold)
				theta, err := fit(o.variant, o.penalty, train, lam)
				if err != nil {
					return fmt.Errorf("cv fit (lambda=%g fold=%d): %w", lam, fold, err)
				}
				eff := theta
				n := o.data.EventCount()
				if o.variant == mhn.VariantOmega {
					eff = mhn.EffectiveTheta(theta, n)
				}
				scores[si][fold] = mhn.LogLikelihood(eff, n, held.Counts())
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	best := 0
	bestScore := math.Inf(-1)
	for si, lam := range grid {
		var mean float64
		for _, s := range scores[si] {
			mean += s
		}
		mean /= float64(opts.Folds)
		if opts.Progress {
			log.Debug().Float64("lambda", lam).Float64("score", mean).Msg("cross-validation")
		}
		if mean > bestScore {
			best, bestScore = si, mean
		}
	}
	return grid[best], nil
}

func dataFolds(o *Optimizer, k int) ([]int, error) {
	assign, err := dataset.Folds(o.data.SampleCount(), k, o.rng)
	if err != nil {
		return nil, fmt.Errorf("fold assignment: %w", err)
	}
	return assign, nil
}

func logspace(min, max float64, steps int) []float64 {
	out := make([]float64, steps)
	if steps == 1 {
		out[0] = min
		return out
	}
	ratio := math.Log(max / min)
	for i := range out {
		out[i] = min * math.Exp(ratio*float64(i)/float64(steps-1))
	}
	return out
}
