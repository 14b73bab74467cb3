package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := ValidateRunConfig(cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if len(cfg.Datasets) != 2 {
		t.Fatalf("default datasets: %+v", cfg.Datasets)
	}
	if cfg.Datasets[0].Label != "COAD" || cfg.Datasets[1].Label != "LUAD" {
		t.Fatalf("default labels: %+v", cfg.Datasets)
	}
	if cfg.Seed != 0 {
		t.Fatalf("default seed: %d", cfg.Seed)
	}
}

func TestLoadRunConfig(t *testing.T) {
	path := writeConfig(t, `
results_dir = "out"
seed = 17

[lambda]
min = 0.001
max = 0.1
steps = 5
folds = 3

[[datasets]]
label = "COAD"
path = "data/coad.csv"
`)

	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ResultsDir != "out" {
		t.Fatalf("results dir: %q", cfg.ResultsDir)
	}
	if cfg.Seed != 17 {
		t.Fatalf("seed: %d", cfg.Seed)
	}
	if cfg.Lambda.Steps != 5 || cfg.Lambda.Folds != 3 {
		t.Fatalf("lambda: %+v", cfg.Lambda)
	}
	if len(cfg.Datasets) != 1 || cfg.Datasets[0].Label != "COAD" {
		t.Fatalf("datasets: %+v", cfg.Datasets)
	}
}

func TestLoadRunConfigDefaultsResultsDir(t *testing.T) {
	path := writeConfig(t, `
[[datasets]]
label = "X"
path = "x.csv"
`)
	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ResultsDir != "results" {
		t.Fatalf("results dir default: %q", cfg.ResultsDir)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	base := Default()

	noData := base
	noData.Datasets = nil
	if err := ValidateRunConfig(noData); err == nil {
		t.Fatalf("expected error for empty datasets")
	}

	dup := base
	dup.Datasets = []DatasetConfig{
		{Label: "COAD", Path: "a.csv"},
		{Label: "COAD", Path: "b.csv"},
	}
	if err := ValidateRunConfig(dup); err == nil {
		t.Fatalf("expected error for duplicate labels")
	}

	slash := base
	slash.Datasets = []DatasetConfig{{Label: "a/b", Path: "a.csv"}}
	if err := ValidateRunConfig(slash); err == nil {
		t.Fatalf("expected error for separator in label")
	}

	oneFold := base
	oneFold.Lambda.Folds = 1
	if err := ValidateRunConfig(oneFold); err == nil {
		t.Fatalf("expected error for single fold")
	}

	inverted := base
	inverted.Lambda.Min = 1
	inverted.Lambda.Max = 0.5
	if err := ValidateRunConfig(inverted); err == nil {
		t.Fatalf("expected error for inverted lambda range")
	}
}

func TestLoadRunConfigMissingFile(t *testing.T) {
	if _, err := LoadRunConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
