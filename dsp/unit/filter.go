package unit

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-livecode/dsp/core"
	"github.com/cwbudde/algo-livecode/dsp/graph"
)

// FilterKind selects a biquad response.
type FilterKind int

const (
	Lowpass FilterKind = iota
	Highpass
	Bandpass
)

// Biquad is a second-order RBJ filter in Direct Form II Transposed.
type Biquad struct {
	kind FilterKind
	hz   float64
	q    float64
	sr   float64

	b0, b1, b2, a1, a2 float64
	d0, d1             float64
}

// NewBiquad returns a filter with cutoff hz and quality q.
func NewBiquad(kind FilterKind, hz, q float64) (*Biquad, error) {
	if hz <= 0 || math.IsNaN(hz) || math.IsInf(hz, 0) {
		return nil, fmt.Errorf("%w: cutoff %g", ErrArgs, hz)
	}
	if q <= 0 || math.IsNaN(q) {
		return nil, fmt.Errorf("%w: q %g", ErrArgs, q)
	}

	f := &Biquad{kind: kind, hz: hz, q: q, sr: graph.DefaultSampleRate}
	f.design()
	return f, nil
}

func (f *Biquad) design() {
	// Clamp below Nyquist so a low sample rate never yields an unstable section.
	hz := math.Min(f.hz, 0.49*f.sr)
	w0 := 2 * math.Pi * hz / f.sr
	cosw, sinw := math.Cos(w0), math.Sin(w0)
	alpha := sinw / (2 * f.q)

	var b0, b1, b2 float64
	switch f.kind {
	case Highpass:
		b0 = (1 + cosw) / 2
		b1 = -(1 + cosw)
		b2 = b0
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cosw) / 2
		b1 = 1 - cosw
		b2 = b0
	}

	a0 := 1 + alpha
	f.b0, f.b1, f.b2 = b0/a0, b1/a0, b2/a0
	f.a1, f.a2 = -2*cosw/a0, (1-alpha)/a0
}

func (f *Biquad) Inputs() int  { return 1 }
func (f *Biquad) Outputs() int { return 1 }

func (f *Biquad) Tick(in, out []float64) {
	x := in[0]
	y := f.b0*x + f.d0
	f.d0 = core.FlushDenormals(f.b1*x - f.a1*y + f.d1)
	f.d1 = core.FlushDenormals(f.b2*x - f.a2*y)
	out[0] = y
}

func (f *Biquad) Reset() { f.d0, f.d1 = 0, 0 }

func (f *Biquad) SetSampleRate(sr float64) {
	if sr > 0 && sr != f.sr {
		f.sr = sr
		f.design()
	}
}

func (f *Biquad) Clone() graph.Unit {
	c := *f
	return &c
}
