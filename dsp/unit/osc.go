package unit

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-livecode/dsp/graph"
)

// Waveform selects an oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Saw
	Square
	Triangle
)

// String returns the constructor stem for w.
func (w Waveform) String() string {
	switch w {
	case Saw:
		return "saw"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	default:
		return "sine"
	}
}

// Osc is a naive oscillator. With a fixed frequency it has no inputs;
// otherwise its single input is the frequency in Hz.
type Osc struct {
	wave  Waveform
	hz    float64
	fixed bool
	phase float64 // radians in [-pi, pi)
	sr    float64
}

// NewOsc returns an oscillator with a fixed frequency.
func NewOsc(w Waveform, hz float64) *Osc {
	return &Osc{wave: w, hz: hz, fixed: true, phase: -math.Pi, sr: graph.DefaultSampleRate}
}

// NewOscIn returns an oscillator whose frequency is read from its input.
func NewOscIn(w Waveform) *Osc {
	return &Osc{wave: w, phase: -math.Pi, sr: graph.DefaultSampleRate}
}

func (o *Osc) Inputs() int {
	if o.fixed {
		return 0
	}
	return 1
}

func (o *Osc) Outputs() int { return 1 }

func (o *Osc) Tick(in, out []float64) {
	hz := o.hz
	if !o.fixed {
		hz = in[0]
	}

	// Sine and triangle start at zero crossing; the phase origin is -pi.
	p := o.phase + math.Pi
	switch o.wave {
	case Saw:
		out[0] = o.phase / math.Pi
	case Square:
		if math.Sin(p) >= 0 {
			out[0] = 1
		} else {
			out[0] = -1
		}
	case Triangle:
		out[0] = (2 / math.Pi) * math.Asin(math.Sin(p))
	default:
		out[0] = math.Sin(p)
	}

	o.phase += 2 * math.Pi * hz / o.sr
	if o.phase >= math.Pi || o.phase < -math.Pi {
		o.phase = math.Mod(o.phase+math.Pi, 2*math.Pi)
		if o.phase < 0 {
			o.phase += 2 * math.Pi
		}
		o.phase -= math.Pi
	}
}

func (o *Osc) Reset() { o.phase = -math.Pi }

func (o *Osc) SetSampleRate(sr float64) {
	if sr > 0 {
		o.sr = sr
	}
}

func (o *Osc) Clone() graph.Unit {
	c := *o
	return &c
}

func (o *Osc) String() string {
	if o.fixed {
		return fmt.Sprintf("%s_hz(%g)", o.wave, o.hz)
	}
	return o.wave.String() + "()"
}
