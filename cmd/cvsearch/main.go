// cvsearch runs the cross-validated lambda grid search for a single
// dataset and model variant without training a final network.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/cbio-kiel/mhnctl/internal/logging"
	"github.com/cbio-kiel/mhnctl/internal/mhn"
	"github.com/cbio-kiel/mhnctl/internal/optimize"
)

type options struct {
	data    string
	variant string
	seed    int64
	min     float64
	max     float64
	steps   int
	folds   int
	workers int
}

func parseOptions() options {
	var opts options
	flag.StringVar(&opts.data, "data", "", "path to the mutation-matrix CSV (required)")
	flag.StringVar(&opts.variant, "variant", string(mhn.VariantOmega), "model variant: oMHN or cMHN")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed for fold assignment")
	flag.Float64Var(&opts.min, "min", 0, "smallest lambda candidate (0 = default)")
	flag.Float64Var(&opts.max, "max", 0, "largest lambda candidate (0 = default)")
	flag.IntVar(&opts.steps, "steps", 0, "grid size (0 = default)")
	flag.IntVar(&opts.folds, "folds", 0, "cross-validation folds (0 = default)")
	flag.IntVar(&opts.workers, "workers", 0, "concurrent fold fits (0 = GOMAXPROCS)")
	flag.Parse()
	return opts
}

func run(opts options) error {
	if opts.data == "" {
		return fmt.Errorf("-data is required")
	}

	opt, err := optimize.New(mhn.Variant(opts.variant))
	if err != nil {
		return err
	}
	opt.Seed(opts.seed)
	if err := opt.SetPenalty(mhn.PenaltySymSparse); err != nil {
		return err
	}
	if err := opt.LoadDataFromCSV(opts.data); err != nil {
		return err
	}

	lam, err := opt.FindLambda(optimize.LambdaOptions{
		Min:      opts.min,
		Max:      opts.max,
		Steps:    opts.steps,
		Folds:    opts.folds,
		Workers:  opts.workers,
		Progress: true,
	})
	if err != nil {
		return err
	}

	log.Info().Str("variant", opts.variant).Float64("lambda", lam).Msg("optimal lambda")
	fmt.Println(lam)
	return nil
}

func main() {
	logging.ConfigureRuntime()
	if err := run(parseOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "cvsearch: %v\n", err)
		os.Exit(1)
	}
}
