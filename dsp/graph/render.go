package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-livecode/dsp/buffer"
)

// ErrRenderLive reports an attempt to render a unit that wraps a playing backend.
var ErrRenderLive = errors.New("graph: cannot render a live backend")

// Render plays a copy of u for seconds at sampleRate with silent inputs and
// returns one channel per output. u itself is not advanced.
func Render(u Unit, sampleRate, seconds float64) (*buffer.Wave, error) {
	if u.Outputs() == 0 {
		return nil, fmt.Errorf("%w: nothing to render from a unit without outputs", ErrArity)
	}
	if sampleRate <= 0 || seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return nil, fmt.Errorf("graph: invalid render length %gs at %g Hz", seconds, sampleRate)
	}
	if IsLive(u) {
		return nil, ErrRenderLive
	}

	c := u.Clone()
	c.SetSampleRate(sampleRate)
	c.Reset()

	frames := framesFor(seconds, sampleRate)
	w, err := buffer.New(c.Outputs(), frames, sampleRate)
	if err != nil {
		return nil, err
	}

	in := make([]float64, c.Inputs())
	out := make([]float64, c.Outputs())
	for i := range frames {
		c.Tick(in, out)
		for ch, x := range out {
			w.Set(ch, i, x)
		}
	}

	return w, nil
}
