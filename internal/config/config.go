// Package config defines the reproduction run configuration shared by
// the mhnctl binaries.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

type RunConfig struct {
	ResultsDir string          `toml:"results_dir"`
	Seed       int64           `toml:"seed"`
	Lambda     LambdaConfig    `toml:"lambda"`
	Datasets   []DatasetConfig `toml:"datasets"`
}

type DatasetConfig struct {
	Label string `toml:"label"`
	Path  string `toml:"path"`
}

type LambdaConfig struct {
	Min      float64 `toml:"min"`
	Max      float64 `toml:"max"`
	Steps    int     `toml:"steps"`
	Folds    int     `toml:"folds"`
	Workers  int     `toml:"workers"`
	Progress bool    `toml:"progress"`
}

// Default reproduces the published COAD/LUAD analysis.
func Default() RunConfig {
	return RunConfig{
		ResultsDir: "results",
		Seed:       0,
		Datasets: []DatasetConfig{
			{Label: "COAD", Path: "data/COAD_n12.csv"},
			{Label: "LUAD", Path: "data/LUAD_n12.csv"},
		},
	}
}

func LoadRunConfig(path string) (RunConfig, error) {
	var cfg RunConfig
	if err := loadToml(path, &cfg); err != nil {
		return RunConfig{}, err
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = "results"
	}
	if err := ValidateRunConfig(cfg); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateRunConfig(cfg RunConfig) error {
	if strings.TrimSpace(cfg.ResultsDir) == "" {
		return fmt.Errorf("run config missing results_dir")
	}
	if len(cfg.Datasets) == 0 {
		return fmt.Errorf("run config has no datasets")
	}
	seen := make(map[string]struct{})
	for i, ds := range cfg.Datasets {
		if err := ValidateDatasetEntry(ds); err != nil {
			return fmt.Errorf("dataset[%d] invalid: %w", i, err)
		}
		if _, dup := seen[ds.Label]; dup {
			return fmt.Errorf("dataset[%d] duplicates label %q", i, ds.Label)
		}
		seen[ds.Label] = struct{}{}
	}
	return ValidateLambdaConfig(cfg.Lambda)
}

func ValidateDatasetEntry(ds DatasetConfig) error {
	if strings.TrimSpace(ds.Label) == "" {
		return fmt.Errorf("label is required")
	}
	if strings.ContainsAny(ds.Label, "/\\") {
		return fmt.Errorf("label %q must not contain path separators", ds.Label)
	}
	if strings.TrimSpace(ds.Path) == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// ValidateLambdaConfig checks only what the config alone can know;
// zero values mean "use the search defaults".
func ValidateLambdaConfig(lc LambdaConfig) error {
	if lc.Min < 0 || lc.Max < 0 {
		return fmt.Errorf("lambda range must be non-negative")
	}
	if lc.Min > 0 && lc.Max > 0 && lc.Max < lc.Min {
		return fmt.Errorf("lambda max %v below min %v", lc.Max, lc.Min)
	}
	if lc.Steps < 0 {
		return fmt.Errorf("lambda steps must be non-negative")
	}
	if lc.Folds < 0 || lc.Folds == 1 {
		return fmt.Errorf("lambda folds must be 0 or at least 2")
	}
	if lc.Workers < 0 {
		return fmt.Errorf("lambda workers must be non-negative")
	}
	return nil
}
