package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// Analyzer computes windowed magnitude spectra of a fixed frame size.
// An Analyzer is not safe for concurrent use.
type Analyzer struct {
	size   int
	plan   *algofft.Plan[complex128]
	window []float64
	gain   float64

	frame []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
}

// NewAnalyzer returns an Analyzer for frames of size samples. size must be a
// power of two of at least 2.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size < 2 || size&(size-1) != 0 {
		return nil, fmt.Errorf("spectrum: size must be a power of two >= 2: %d", size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	win := Hann(size)
	sum := 0.0
	for _, w := range win {
		sum += w
	}

	bins := size/2 + 1

	return &Analyzer{
		size:   size,
		plan:   plan,
		window: win,
		gain:   sum,
		frame:  make([]float64, size),
		in:     make([]complex128, size),
		out:    make([]complex128, size),
		re:     make([]float64, bins),
		im:     make([]float64, bins),
	}, nil
}

// Size returns the frame size.
func (a *Analyzer) Size() int {
	return a.size
}

// Bins returns the number of magnitude bins, size/2+1.
func (a *Analyzer) Bins() int {
	return a.size/2 + 1
}

// Magnitude writes the normalized magnitude of bins 0..size/2 into dst and
// returns it. samples shorter than the frame are zero padded. A full-scale
// sine centered on a bin reads close to 0.5 at that bin.
func (a *Analyzer) Magnitude(dst, samples []float64) ([]float64, error) {
	n := copy(a.frame, samples)
	clear(a.frame[n:])

	vecmath.MulBlockInPlace(a.frame, a.window)

	for i, x := range a.frame {
		a.in[i] = complex(x, 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("spectrum: forward: %w", err)
	}

	for i := range a.re {
		a.re[i] = real(a.out[i])
		a.im[i] = imag(a.out[i])
	}

	if cap(dst) < len(a.re) {
		dst = make([]float64, len(a.re))
	}
	dst = dst[:len(a.re)]

	vecmath.Magnitude(dst, a.re, a.im)

	scale := 1 / a.gain
	vecmath.ScaleBlock(dst, dst, scale)

	return dst, nil
}

// Analyze is a one-shot helper around NewAnalyzer and Magnitude.
func Analyze(samples []float64, size int) ([]float64, error) {
	a, err := NewAnalyzer(size)
	if err != nil {
		return nil, err
	}
	return a.Magnitude(nil, samples)
}

// BinFrequency returns the centre frequency of bin k.
func BinFrequency(k, size int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(size)
}

// Hann returns a periodic Hann window of length n.
func Hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
	}
	return w
}
