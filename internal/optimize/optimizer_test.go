package optimize

import (
	"math"
	"testing"

	"github.com/cbio-kiel/mhnctl/internal/dataset"
	"github.com/cbio-kiel/mhnctl/internal/mhn"
)

// syntheticMatrix builds a small deterministic dataset where event B
// tends to follow event A.
func syntheticMatrix(samples int) *dataset.Matrix {
	pattern := []uint32{0b000, 0b001, 0b011, 0b011, 0b100, 0b000, 0b001, 0b111}
	m := &dataset.Matrix{Events: []string{"A", "B", "C"}}
	for i := 0; i < samples; i++ {
		m.Samples = append(m.Samples, pattern[i%len(pattern)])
	}
	return m
}

func TestNewRejectsUnknownVariant(t *testing.T) {
	if _, err := New(mhn.Variant("xMHN")); err == nil {
		t.Fatalf("expected variant error")
	}
}

func TestTrainRequiresPenaltyThenData(t *testing.T) {
	opt, err := New(mhn.VariantClassical)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := opt.Train(0.01); err == nil {
		t.Fatalf("expected error before SetPenalty")
	}
	if err := opt.SetPenalty(mhn.PenaltySymSparse); err != nil {
		t.Fatalf("set penalty: %v", err)
	}
	if _, err := opt.Train(0.01); err == nil {
		t.Fatalf("expected error before data is loaded")
	}
	if _, err := opt.FindLambda(LambdaOptions{}); err == nil {
		t.Fatalf("expected FindLambda error before data is loaded")
	}

	opt.SetData(syntheticMatrix(24))
	if _, err := opt.Train(0); err == nil {
		t.Fatalf("expected error for non-positive lambda")
	}
	if _, err := opt.Train(0.01); err != nil {
		t.Fatalf("train: %v", err)
	}
}

func TestSetPenaltyRejectsUnknown(t *testing.T) {
	opt, err := New(mhn.VariantClassical)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := opt.SetPenalty(mhn.Penalty(42)); err == nil {
		t.Fatalf("expected penalty error")
	}
}

func TestTrainShapes(t *testing.T) {
	data := syntheticMatrix(24)
	for _, variant := range []mhn.Variant{mhn.VariantClassical, mhn.VariantOmega} {
		opt, err := New(variant)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if err := opt.SetPenalty(mhn.PenaltySymSparse); err != nil {
			t.Fatalf("set penalty: %v", err)
		}
		opt.SetData(data)

		res, err := opt.Train(0.05)
		if err != nil {
			t.Fatalf("%s train: %v", variant, err)
		}
		rows, cols := res.Theta.Dims()
		if cols != 3 || rows != variant.Rows(3) {
			t.Fatalf("%s shape %dx%d", variant, rows, cols)
		}
		if res.Lambda != 0.05 {
			t.Fatalf("lambda not recorded: %v", res.Lambda)
		}
		if opt.Result() != res {
			t.Fatalf("result handle not stored")
		}
	}
}

func TestTrainDeterministic(t *testing.T) {
	runOnce := func() []float64 {
		opt, err := New(mhn.VariantOmega)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		opt.Seed(0)
		if err := opt.SetPenalty(mhn.PenaltySymSparse); err != nil {
			t.Fatalf("set penalty: %v", err)
		}
		opt.SetData(syntheticMatrix(24))
		res, err := opt.Train(0.02)
		if err != nil {
			t.Fatalf("train: %v", err)
		}
		return res.Theta.RawMatrix().Data
	}

	a := runOnce()
	b := runOnce()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("training not deterministic at parameter %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestTrainImprovesLikelihood(t *testing.T) {
	data := syntheticMatrix(40)
	opt, err := New(mhn.VariantClassical)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := opt.SetPenalty(mhn.PenaltySymSparse); err != nil {
		t.Fatalf("set penalty: %v", err)
	}
	opt.SetData(data)

	res, err := opt.Train(0.01)
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	counts := data.Counts()
	before := mhn.LogLikelihood(initialTheta(mhn.VariantClassical, data), 3, counts)
	after := mhn.LogLikelihood(res.Theta.RawMatrix().Data, 3, counts)
	if after <= before {
		t.Fatalf("likelihood did not improve: %v -> %v", before, after)
	}
}

func TestFindLambdaWithinGrid(t *testing.T) {
	opt, err := New(mhn.VariantClassical)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	opt.Seed(0)
	if err := opt.SetPenalty(mhn.PenaltySymSparse); err != nil {
		t.Fatalf("set penalty: %v", err)
	}
	opt.SetData(syntheticMatrix(32))

	opts := LambdaOptions{Min: 1e-3, Max: 1e-1, Steps: 3, Folds: 2}
	lam, err := opt.FindLambda(opts)
	if err != nil {
		t.Fatalf("find lambda: %v", err)
	}
	if lam < opts.Min || lam > opts.Max {
		t.Fatalf("lambda %v outside grid [%v, %v]", lam, opts.Min, opts.Max)
	}

	opt.Seed(0)
	again, err := opt.FindLambda(opts)
	if err != nil {
		t.Fatalf("find lambda: %v", err)
	}
	if lam != again {
		t.Fatalf("lambda selection not deterministic: %v vs %v", lam, again)
	}
}

func TestFindLambdaSingleStep(t *testing.T) {
	opt, err := New(mhn.VariantClassical)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := opt.SetPenalty(mhn.PenaltySymSparse); err != nil {
		t.Fatalf("set penalty: %v", err)
	}
	opt.SetData(syntheticMatrix(32))

	lam, err := opt.FindLambda(LambdaOptions{Min: 0.01, Max: 0.01, Steps: 1, Folds: 2})
	if err != nil {
		t.Fatalf("find lambda: %v", err)
	}
	if lam != 0.01 {
		t.Fatalf("single-step grid returned %v", lam)
	}
}

func TestLambdaOptionsValidation(t *testing.T) {
	opt, err := New(mhn.VariantClassical)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := opt.SetPenalty(mhn.PenaltySymSparse); err != nil {
		t.Fatalf("set penalty: %v", err)
	}
	opt.SetData(syntheticMatrix(16))

	if _, err := opt.FindLambda(LambdaOptions{Min: -1, Max: 1}); err == nil {
		t.Fatalf("expected error for negative min")
	}
	if _, err := opt.FindLambda(LambdaOptions{Min: 1, Max: 0.1}); err == nil {
		t.Fatalf("expected error for inverted range")
	}
	if _, err := opt.FindLambda(LambdaOptions{Folds: 100}); err == nil {
		t.Fatalf("expected error for more folds than samples")
	}
}

func TestLogspace(t *testing.T) {
	grid := logspace(1e-4, 1e-2, 3)
	if len(grid) != 3 {
		t.Fatalf("grid length %d", len(grid))
	}
	if math.Abs(grid[0]-1e-4) > 1e-12 || math.Abs(grid[2]-1e-2) > 1e-12 {
		t.Fatalf("endpoints wrong: %v", grid)
	}
	if math.Abs(grid[1]-1e-3) > 1e-9 {
		t.Fatalf("midpoint not log-spaced: %v", grid[1])
	}
}
