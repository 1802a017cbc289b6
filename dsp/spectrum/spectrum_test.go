package spectrum

import (
	"math"
	"testing"
)

func TestNewAnalyzerValidation(t *testing.T) {
	t.Parallel()

	for _, size := range []int{0, 1, 3, 1000} {
		if _, err := NewAnalyzer(size); err == nil {
			t.Fatalf("NewAnalyzer(%d) expected error", size)
		}
	}
}

func TestSinePeaksAtBin(t *testing.T) {
	t.Parallel()

	const (
		size = 256
		bin  = 16
	)

	samples := make([]float64, size)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * bin * float64(i) / size)
	}

	mag, err := Analyze(samples, size)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(mag) != size/2+1 {
		t.Fatalf("len = %d, want %d", len(mag), size/2+1)
	}

	peak := 0
	for k := range mag {
		if mag[k] > mag[peak] {
			peak = k
		}
	}

	if peak != bin {
		t.Fatalf("peak bin = %d, want %d", peak, bin)
	}

	if math.Abs(mag[bin]-0.5) > 1e-6 {
		t.Fatalf("peak magnitude = %v, want 0.5", mag[bin])
	}
}

func TestSilenceAndPadding(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(64)
	if err != nil {
		t.Fatal(err)
	}

	mag, err := a.Magnitude(nil, []float64{0, 0, 0})
	if err != nil {
		t.Fatal(err)
	}

	for k, m := range mag {
		if m != 0 {
			t.Fatalf("mag[%d] = %v, want 0", k, m)
		}
	}
}

func TestBinFrequency(t *testing.T) {
	t.Parallel()

	if got := BinFrequency(4, 1024, 48000); math.Abs(got-187.5) > 1e-12 {
		t.Fatalf("BinFrequency = %v, want 187.5", got)
	}
}
