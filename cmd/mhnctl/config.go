package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cbio-kiel/mhnctl/internal/config"
	"github.com/cbio-kiel/mhnctl/internal/optimize"
	"github.com/cbio-kiel/mhnctl/internal/repro"
)

type fileConfig struct {
	ResultsDir string           `toml:"results_dir"`
	Seed       int64            `toml:"seed"`
	Lambda     fileLambdaConfig `toml:"lambda"`
	Datasets   []fileDataset    `toml:"datasets"`
}

type fileDataset struct {
	Label string `toml:"label"`
	Path  string `toml:"path"`
}

type fileLambdaConfig struct {
	Min      float64 `toml:"min"`
	Max      float64 `toml:"max"`
	Steps    int     `toml:"steps"`
	Folds    int     `toml:"folds"`
	Workers  int     `toml:"workers"`
	Progress bool    `toml:"progress"`
}

// loadRunConfig overlays a TOML file onto the default reproduction
// setup; only keys actually present in the file override it.
func loadRunConfig(path string) (config.RunConfig, error) {
	cfg := config.Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.RunConfig{}, fmt.Errorf("load run config: %w", err)
	}

	if meta.IsDefined("results_dir") {
		if dir := strings.TrimSpace(raw.ResultsDir); dir != "" {
			cfg.ResultsDir = dir
		}
	}
	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}
	if meta.IsDefined("datasets") {
		cfg.Datasets = cfg.Datasets[:0]
		for _, ds := range raw.Datasets {
			cfg.Datasets = append(cfg.Datasets, config.DatasetConfig{
				Label: strings.TrimSpace(ds.Label),
				Path:  strings.TrimSpace(ds.Path),
			})
		}
	}
	if meta.IsDefined("lambda", "min") {
		cfg.Lambda.Min = raw.Lambda.Min
	}
	if meta.IsDefined("lambda", "max") {
		cfg.Lambda.Max = raw.Lambda.Max
	}
	if meta.IsDefined("lambda", "steps") {
		cfg.Lambda.Steps = raw.Lambda.Steps
	}
	if meta.IsDefined("lambda", "folds") {
		cfg.Lambda.Folds = raw.Lambda.Folds
	}
	if meta.IsDefined("lambda", "workers") {
		cfg.Lambda.Workers = raw.Lambda.Workers
	}
	if meta.IsDefined("lambda", "progress") {
		cfg.Lambda.Progress = raw.Lambda.Progress
	}

	if err := config.ValidateRunConfig(cfg); err != nil {
		return config.RunConfig{}, err
	}
	return cfg, nil
}

func driverConfig(cfg config.RunConfig) repro.Config {
	out := repro.Config{
		ResultsDir: cfg.ResultsDir,
		Seed:       cfg.Seed,
		Lambda: optimize.LambdaOptions{
			Min:      cfg.Lambda.Min,
			Max:      cfg.Lambda.Max,
			Steps:    cfg.Lambda.Steps,
			Folds:    cfg.Lambda.Folds,
			Workers:  cfg.Lambda.Workers,
			Progress: cfg.Lambda.Progress,
		},
	}
	for _, ds := range cfg.Datasets {
		out.Datasets = append(out.Datasets, repro.Dataset{Label: ds.Label, Path: ds.Path})
	}
	return out
}
