// Package repro runs the reproduction sequence: for every configured
// dataset, fit an oMHN and a cMHN with a symmetric-sparse penalty and
// cross-validated lambda, and persist both networks.
package repro

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cbio-kiel/mhnctl/internal/mhn"
	"github.com/cbio-kiel/mhnctl/internal/observability"
	"github.com/cbio-kiel/mhnctl/internal/optimize"
	"github.com/cbio-kiel/mhnctl/internal/results"
)

// Dataset is a labeled reference to a mutation-matrix CSV.
type Dataset struct {
	Label string
	Path  string
}

type Config struct {
	Datasets   []Dataset
	ResultsDir string
	Seed       int64
	Lambda     optimize.LambdaOptions
}

// variants in fitting order; the omega model first, as in the published
// analysis.
var variants = [...]mhn.Variant{mhn.VariantOmega, mhn.VariantClassical}

type Driver struct {
	cfg Config
	log zerolog.Logger
}

func NewDriver(cfg Config, logger zerolog.Logger) (*Driver, error) {
	if len(cfg.Datasets) == 0 {
		return nil, fmt.Errorf("no datasets configured")
	}
	seen := make(map[string]struct{})
	for i, ds := range cfg.Datasets {
		if strings.TrimSpace(ds.Label) == "" {
			return nil, fmt.Errorf("dataset[%d] missing label", i)
		}
		if strings.TrimSpace(ds.Path) == "" {
			return nil, fmt.Errorf("dataset %s missing path", ds.Label)
		}
		if _, dup := seen[ds.Label]; dup {
			return nil, fmt.Errorf("duplicate dataset label %q", ds.Label)
		}
		seen[ds.Label] = struct{}{}
	}
	if strings.TrimSpace(cfg.ResultsDir) == "" {
		return nil, fmt.Errorf("results directory not set")
	}
	return &Driver{cfg: cfg, log: logger}, nil
}

// Run processes the datasets strictly in order and stops at the first
// failure. There is no retry and no partial-failure handling; a
// supervised one-shot job surfaces whatever broke and exits.
func (d *Driver) Run() error {
	for _, ds := range d.cfg.Datasets {
		if err := d.runDataset(ds); err != nil {
			return fmt.Errorf("dataset %s: %w", ds.Label, err)
		}
		observability.RecordDataset()
	}
	return nil
}

func (d *Driver) runDataset(ds Dataset) error {
	// Check the input up front so a bad path aborts before any artifact
	// for this dataset is written.
	if _, err := os.Stat(ds.Path); err != nil {
		return fmt.Errorf("dataset file: %w", err)
	}
	for _, variant := range variants {
		if err := d.fitVariant(ds, variant); err != nil {
			return fmt.Errorf("%s: %w", variant, err)
		}
	}
	return nil
}

func (d *Driver) fitVariant(ds Dataset, variant mhn.Variant) error {
	d.log.Info().Str("dataset", ds.Label).Str("variant", string(variant)).Msg("learning network")
	start := time.Now()

	opt, err := optimize.New(variant)
	if err != nil {
		return err
	}
	opt.Seed(d.cfg.Seed)
	if err := opt.SetPenalty(mhn.PenaltySymSparse); err != nil {
		return err
	}
	if err := opt.LoadDataFromCSV(ds.Path); err != nil {
		return err
	}

	lam, err := opt.FindLambda(d.cfg.Lambda)
	if err != nil {
		return err
	}
	d.log.Info().Str("dataset", ds.Label).Str("variant", string(variant)).
		Float64("lambda", lam).Msg("optimal lambda")

	res, err := opt.Train(lam)
	if err != nil {
		return err
	}

	path := results.ArtifactPath(d.cfg.ResultsDir, ds.Label, variant)
	if err := res.Save(path); err != nil {
		return err
	}

	elapsed := time.Since(start)
	observability.RecordTraining(ds.Label, string(variant), lam, elapsed)
	d.log.Info().Str("dataset", ds.Label).Str("variant", string(variant)).
		Str("path", path).Dur("elapsed", elapsed).Msg("network saved")
	return nil
}
