package unit

import (
	"math"

	"github.com/cwbudde/algo-livecode/dsp/graph"
)

// Sink consumes n inputs and has no outputs.
type Sink struct{ n int }

func (s *Sink) Inputs() int           { return s.n }
func (s *Sink) Outputs() int          { return 0 }
func (s *Sink) Tick(_, _ []float64)   {}
func (s *Sink) Reset()                {}
func (s *Sink) SetSampleRate(float64) {}
func (s *Sink) Clone() graph.Unit     { return &Sink{n: s.n} }

// Gain multiplies n inputs by k.
type Gain struct {
	k float64
	n int
}

func (g *Gain) Inputs() int  { return g.n }
func (g *Gain) Outputs() int { return g.n }

func (g *Gain) Tick(in, out []float64) {
	for i := range out {
		out[i] = in[i] * g.k
	}
}

func (g *Gain) Reset()                {}
func (g *Gain) SetSampleRate(float64) {}
func (g *Gain) Clone() graph.Unit     { return &Gain{k: g.k, n: g.n} }

// Offset adds k to n inputs.
type Offset struct {
	k float64
	n int
}

func (o *Offset) Inputs() int  { return o.n }
func (o *Offset) Outputs() int { return o.n }

func (o *Offset) Tick(in, out []float64) {
	for i := range out {
		out[i] = in[i] + o.k
	}
}

func (o *Offset) Reset()                {}
func (o *Offset) SetSampleRate(float64) {}
func (o *Offset) Clone() graph.Unit     { return &Offset{k: o.k, n: o.n} }

// Split copies one input to n outputs.
type Split struct{ n int }

func (s *Split) Inputs() int  { return 1 }
func (s *Split) Outputs() int { return s.n }

func (s *Split) Tick(in, out []float64) {
	for i := range out {
		out[i] = in[0]
	}
}

func (s *Split) Reset()                {}
func (s *Split) SetSampleRate(float64) {}
func (s *Split) Clone() graph.Unit     { return &Split{n: s.n} }

// Join averages n inputs into one output.
type Join struct{ n int }

func (j *Join) Inputs() int  { return j.n }
func (j *Join) Outputs() int { return 1 }

func (j *Join) Tick(in, out []float64) {
	sum := 0.0
	for _, x := range in {
		sum += x
	}
	out[0] = sum / float64(j.n)
}

func (j *Join) Reset()                {}
func (j *Join) SetSampleRate(float64) {}
func (j *Join) Clone() graph.Unit     { return &Join{n: j.n} }

// Pan places a mono input in the stereo field with equal-power gains.
// Position -1 is hard left, 1 hard right.
type Pan struct {
	left, right float64
	pos         float64
}

// NewPan returns a panner at pos.
func NewPan(pos float64) *Pan {
	pos = math.Max(-1, math.Min(1, pos))
	angle := (pos + 1) * math.Pi / 4
	return &Pan{left: math.Cos(angle), right: math.Sin(angle), pos: pos}
}

func (p *Pan) Inputs() int  { return 1 }
func (p *Pan) Outputs() int { return 2 }

func (p *Pan) Tick(in, out []float64) {
	out[0] = in[0] * p.left
	out[1] = in[0] * p.right
}

func (p *Pan) Reset()                {}
func (p *Pan) SetSampleRate(float64) {}
func (p *Pan) Clone() graph.Unit     { return NewPan(p.pos) }
