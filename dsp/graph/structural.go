package graph

import (
	"fmt"

	"github.com/cwbudde/algo-livecode/dsp/core"
)

// Constant outputs fixed values and has no inputs.
type Constant struct {
	values []float64
}

// NewConstant returns a unit with one output per value.
func NewConstant(values ...float64) *Constant {
	return &Constant{values: append([]float64(nil), values...)}
}

// Fill returns a constant emitting x on n outputs.
func Fill(x float64, n int) *Constant {
	v := make([]float64, n)
	for i := range v {
		v[i] = x
	}
	return &Constant{values: v}
}

func (c *Constant) Inputs() int  { return 0 }
func (c *Constant) Outputs() int { return len(c.values) }

func (c *Constant) Tick(_, out []float64) { copy(out, c.values) }

func (c *Constant) Reset()                {}
func (c *Constant) SetSampleRate(float64) {}
func (c *Constant) Clone() Unit           { return NewConstant(c.values...) }
func (c *Constant) String() string        { return fmt.Sprintf("dc%v", c.values) }

// Pass copies n inputs to n outputs.
type Pass struct {
	n int
}

// NewPass returns an identity unit of width n.
func NewPass(n int) *Pass { return &Pass{n: n} }

func (p *Pass) Inputs() int  { return p.n }
func (p *Pass) Outputs() int { return p.n }

func (p *Pass) Tick(in, out []float64) { copy(out, in) }

func (p *Pass) Reset()                {}
func (p *Pass) SetSampleRate(float64) {}
func (p *Pass) Clone() Unit           { return &Pass{n: p.n} }

// Op is a channel-wise binary operation.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
)

// Binary combines two groups of n inputs into n outputs:
// out[i] = in[i] op in[n+i].
type Binary struct {
	op Op
	n  int
}

// NewBinary returns a binary combiner of width n.
func NewBinary(op Op, n int) *Binary { return &Binary{op: op, n: n} }

func (b *Binary) Inputs() int  { return 2 * b.n }
func (b *Binary) Outputs() int { return b.n }

func (b *Binary) Tick(in, out []float64) {
	l, r := in[:b.n], in[b.n:]
	switch b.op {
	case OpAdd:
		for i := range out {
			out[i] = l[i] + r[i]
		}
	case OpSub:
		for i := range out {
			out[i] = l[i] - r[i]
		}
	case OpMul:
		for i := range out {
			out[i] = l[i] * r[i]
		}
	}
}

func (b *Binary) Reset()                {}
func (b *Binary) SetSampleRate(float64) {}
func (b *Binary) Clone() Unit           { return &Binary{op: b.op, n: b.n} }

// Feedback wraps a unit with equal inputs and outputs and feeds its output
// back into its input one sample later: y[t] = inner(x[t] + y[t-1]).
type Feedback struct {
	inner Unit
	prev  []float64
	sum   []float64
}

// NewFeedback wraps inner, which must have as many inputs as outputs.
func NewFeedback(inner Unit) (*Feedback, error) {
	if inner.Inputs() != inner.Outputs() {
		return nil, fmt.Errorf("%w: feedback needs equal inputs and outputs, got (%d, %d)", ErrArity, inner.Inputs(), inner.Outputs())
	}
	n := inner.Outputs()
	return &Feedback{inner: inner, prev: make([]float64, n), sum: make([]float64, n)}, nil
}

func (f *Feedback) Inputs() int  { return f.inner.Inputs() }
func (f *Feedback) Outputs() int { return f.inner.Outputs() }

func (f *Feedback) Tick(in, out []float64) {
	for i := range f.sum {
		f.sum[i] = in[i] + f.prev[i]
	}
	f.inner.Tick(f.sum, out)
	for i, y := range out {
		f.prev[i] = core.FlushDenormals(y)
	}
}

func (f *Feedback) Reset() {
	f.inner.Reset()
	clear(f.prev)
}

func (f *Feedback) SetSampleRate(sampleRate float64) { f.inner.SetSampleRate(sampleRate) }

// SampleRate returns the loop body's rate, or zero when it reports none.
func (f *Feedback) SampleRate() float64 {
	if r, ok := f.inner.(Rated); ok {
		return r.SampleRate()
	}
	return 0
}

func (f *Feedback) Clone() Unit {
	c, _ := NewFeedback(f.inner.Clone())
	return c
}

// IsLive reports whether the loop body is live.
func (f *Feedback) IsLive() bool { return IsLive(f.inner) }
