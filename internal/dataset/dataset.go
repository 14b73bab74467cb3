// Package dataset loads and partitions binary mutation-occurrence matrices.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// MaxEvents caps the number of event columns so the 2^n state space stays
// addressable.
const MaxEvents = 25

// Matrix is a cross-sectional mutation dataset: one bitmask per sample,
// one named column per genetic event. Bit j of a sample is set when the
// sample carries event j.
type Matrix struct {
	Events  []string
	Samples []uint32
}

func (m *Matrix) EventCount() int  { return len(m.Events) }
func (m *Matrix) SampleCount() int { return len(m.Samples) }

// Counts tallies samples per state bitmask over the full 2^n state space.
func (m *Matrix) Counts() []float64 {
	counts := make([]float64, 1<<uint(m.EventCount()))
	for _, s := range m.Samples {
		counts[s]++
	}
	return counts
}

// Frequency reports the marginal occurrence rate of event j, clamped away
// from 0 and 1 so its log-odds stay finite.
func (m *Matrix) Frequency(j int) float64 {
	var hits float64
	for _, s := range m.Samples {
		if s&(1<<uint(j)) != 0 {
			hits++
		}
	}
	total := float64(m.SampleCount())
	eps := 0.5 / total
	f := hits / total
	if f < eps {
		f = eps
	}
	if f > 1-eps {
		f = 1 - eps
	}
	return f
}

// Load reads a mutation matrix from a CSV file. The first row names the
// events; an unnamed leading column (the pandas index convention) is
// skipped. Every cell must be 0 or 1.
func Load(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset open failed (%s): %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset parse failed (%s): %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset empty (%s)", path)
	}

	header := records[0]
	skip := 0
	if strings.TrimSpace(header[0]) == "" {
		skip = 1
	}
	events := make([]string, 0, len(header)-skip)
	for _, name := range header[skip:] {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("dataset header has an empty event name (%s)", path)
		}
		events = append(events, name)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("dataset has no event columns (%s)", path)
	}
	if len(events) > MaxEvents {
		return nil, fmt.Errorf("dataset has %d events, limit is %d (%s)", len(events), MaxEvents, path)
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("dataset has no samples (%s)", path)
	}

	samples := make([]uint32, 0, len(records)-1)
	for rowIdx, row := range records[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("dataset row %d has %d cells, want %d (%s)", rowIdx+1, len(row), len(header), path)
		}
		var bits uint32
		for j, cell := range row[skip:] {
			switch strings.TrimSpace(cell) {
			case "0":
			case "1":
				bits |= 1 << uint(j)
			default:
				return nil, fmt.Errorf("dataset row %d column %s is %q, want 0 or 1 (%s)", rowIdx+1, events[j], cell, path)
			}
		}
		samples = append(samples, bits)
	}

	return &Matrix{Events: events, Samples: samples}, nil
}
