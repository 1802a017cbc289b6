package unit

import (
	"fmt"

	"github.com/cwbudde/algo-livecode/dsp/delay"
	"github.com/cwbudde/algo-livecode/dsp/graph"
)

// Delay delays its input by a fixed time.
type Delay struct {
	seconds float64
	sr      float64
	line    *delay.Line
}

// NewDelay returns a delay of seconds.
func NewDelay(seconds float64) (*Delay, error) {
	if seconds < 0 || seconds > 60 {
		return nil, fmt.Errorf("%w: delay time %g", ErrArgs, seconds)
	}
	d := &Delay{seconds: seconds}
	d.SetSampleRate(graph.DefaultSampleRate)
	return d, nil
}

func (d *Delay) Inputs() int  { return 1 }
func (d *Delay) Outputs() int { return 1 }

func (d *Delay) Tick(in, out []float64) {
	out[0] = d.line.Process(in[0], d.seconds*d.sr)
}

func (d *Delay) Reset() { d.line.Reset() }

func (d *Delay) SetSampleRate(sr float64) {
	if sr <= 0 || (d.line != nil && sr == d.sr) {
		return
	}
	d.sr = sr
	d.line, _ = delay.ForSeconds(d.seconds, sr)
}

func (d *Delay) Clone() graph.Unit {
	c, _ := NewDelay(d.seconds)
	c.SetSampleRate(d.sr)
	return c
}
