// Package results defines the fitted-network artifact and its on-disk
// CSV form.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/cbio-kiel/mhnctl/internal/mhn"
)

// ObservationRowLabel names the omega row in saved oMHN artifacts.
const ObservationRowLabel = "Observation"

// Result is a fitted Mutual Hazard Network: the log-theta matrix labeled
// with its event names, plus the regularization strength it was trained
// with. Lambda is not persisted; a loaded artifact reports it as zero.
type Result struct {
	Variant mhn.Variant
	Events  []string
	Lambda  float64
	Theta   *mat.Dense
}

// ArtifactPath derives the deterministic output location for a dataset
// label and model variant.
func ArtifactPath(dir, label string, v mhn.Variant) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.csv", label, v))
}

func (r *Result) rowLabel(i int) string {
	if i < len(r.Events) {
		return r.Events[i]
	}
	return ObservationRowLabel
}

// Save writes the artifact as CSV: a header of event names behind an
// index column, one labeled row per parameter row. The file is staged in
// a temp file and renamed, so a failed write leaves no partial artifact.
func (r *Result) Save(path string) error {
	rows, cols := r.Theta.Dims()
	if cols != len(r.Events) {
		return fmt.Errorf("result has %d columns for %d events", cols, len(r.Events))
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mhnctl-*")
	if err != nil {
		return fmt.Errorf("result stage failed (%s): %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	header := append([]string{""}, r.Events...)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("result write failed (%s): %w", path, err)
	}
	for i := 0; i < rows; i++ {
		record := make([]string, 0, cols+1)
		record = append(record, r.rowLabel(i))
		for j := 0; j < cols; j++ {
			record = append(record, strconv.FormatFloat(r.Theta.At(i, j), 'g', -1, 64))
		}
		if err := w.Write(record); err != nil {
			tmp.Close()
			return fmt.Errorf("result write failed (%s): %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("result write failed (%s): %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("result write failed (%s): %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("result rename failed (%s): %w", path, err)
	}
	return nil
}

// Load reads a saved artifact back. The variant is recovered from the
// row shape: a trailing Observation row marks an oMHN.
func Load(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("result open failed (%s): %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("result parse failed (%s): %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("result file too short (%s)", path)
	}

	events := records[0][1:]
	n := len(events)
	rows := len(records) - 1

	variant := mhn.VariantClassical
	switch rows {
	case n:
	case n + 1:
		if strings.TrimSpace(records[len(records)-1][0]) != ObservationRowLabel {
			return nil, fmt.Errorf("result has %d rows but no %s row (%s)", rows, ObservationRowLabel, path)
		}
		variant = mhn.VariantOmega
	default:
		return nil, fmt.Errorf("result shape %dx%d not a network (%s)", rows, n, path)
	}

	theta := mat.NewDense(rows, n, nil)
	for i, record := range records[1:] {
		if len(record) != n+1 {
			return nil, fmt.Errorf("result row %d has %d cells, want %d (%s)", i+1, len(record), n+1, path)
		}
		for j, cell := range record[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("result row %d column %d: %w (%s)", i+1, j+1, err, path)
			}
			theta.Set(i, j, v)
		}
	}

	return &Result{Variant: variant, Events: events, Theta: theta}, nil
}
