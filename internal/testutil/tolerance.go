package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or any
// element pair differs by more than eps.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// MaxStep returns the largest absolute difference between consecutive
// samples and the index where it occurs.
func MaxStep(data []float64) (step float64, at int) {
	for i := 1; i < len(data); i++ {
		if d := math.Abs(data[i] - data[i-1]); d > step {
			step, at = d, i
		}
	}
	return step, at
}

// RequireMaxStep fails t if any consecutive pair of samples jumps by more
// than limit.
func RequireMaxStep(t testing.TB, data []float64, limit float64) {
	t.Helper()
	if step, at := MaxStep(data); step > limit {
		t.Fatalf("sample %d jumps by %v > %v", at, step, limit)
	}
}
