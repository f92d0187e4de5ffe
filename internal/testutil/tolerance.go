package testutil

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// RequireSliceNearlyEqual fails t unless got and want have the same length
// and agree to within eps everywhere. The worst index is reported.
func RequireSliceNearlyEqual(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	worst, err := MaxAbsDiff(got, want)
	if err != nil {
		t.Fatal(err)
	}
	if worst > eps {
		i := argMaxDiff(got, want)
		t.Fatalf("index %d: got %v, want %v (max diff %v > eps %v)", i, got[i], want[i], worst, eps)
	}
}

// RequireFinite fails t if a model or spectrum contains NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	if floats.HasNaN(data) {
		idx, _ := floats.Find(nil, math.IsNaN, data, 1)
		t.Fatalf("NaN at index %d", idx[0])
	}
	for i, v := range data {
		if math.IsInf(v, 0) {
			t.Fatalf("index %d: infinite value %v", i, v)
		}
	}
}

// MaxAbsDiff is the maximum norm of a-b.
func MaxAbsDiff(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}
	return floats.Distance(a, b, math.Inf(1)), nil
}

func argMaxDiff(a, b []float64) int {
	idx, worst := 0, -1.0
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > worst {
			idx, worst = i, d
		}
	}
	return idx
}
