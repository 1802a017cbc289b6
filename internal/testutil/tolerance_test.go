package testutil

import "testing"

func TestMaxStep(t *testing.T) {
	step, at := MaxStep([]float64{0, 0.1, 0.2, 1.2, 1.25})
	if at != 3 {
		t.Fatalf("at = %d, want 3", at)
	}
	if step < 0.99 || step > 1.01 {
		t.Fatalf("step = %v, want 1", step)
	}

	if step, _ := MaxStep([]float64{1}); step != 0 {
		t.Fatalf("single sample step = %v", step)
	}
}

func TestRequireHelpersPass(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1, 2.0000001}, 1e-6)
	RequireFinite(t, []float64{0, -1, 1e300})
	RequireMaxStep(t, []float64{0, 0.01, 0.02}, 0.011)
}
