package slot

import (
	"sync/atomic"

	"github.com/cwbudde/algo-livecode/dsp/core"
	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/dsp/graph"
)

// source produces stereo frames on the audio goroutine. clock identifies
// the frame being rendered.
type source interface {
	stereo(clock uint64) (float64, float64)
}

type silence struct{}

func (silence) stereo(uint64) (float64, float64) { return 0, 0 }

// voice plays one unit. Inputs read silence; a mono unit feeds both
// channels and channels past the second are ignored. Non-finite samples
// are replaced by silence before any mixing.
type voice struct {
	unit graph.Unit
	live []graph.Unit
	in   []float64
	out  []float64
	bad  *atomic.Uint64

	ticked bool
	clock  uint64
	l, r   float64
}

func newVoice(u graph.Unit, bad *atomic.Uint64) *voice {
	return &voice{
		unit: u,
		live: graph.LiveUnits(u),
		in:   make([]float64, u.Inputs()),
		out:  make([]float64, u.Outputs()),
		bad:  bad,
	}
}

// stereo ticks the unit at most once per clock value.
func (v *voice) stereo(clock uint64) (float64, float64) {
	if v.ticked && v.clock == clock {
		return v.l, v.r
	}
	v.unit.Tick(v.in, v.out)
	switch len(v.out) {
	case 0:
		v.l, v.r = 0, 0
	case 1:
		v.l = v.sanitize(v.out[0])
		v.r = v.l
	default:
		v.l, v.r = v.sanitize(v.out[0]), v.sanitize(v.out[1])
	}
	v.ticked, v.clock = true, clock
	return v.l, v.r
}

func (v *voice) sanitize(x float64) float64 {
	if core.IsFinite(x) {
		return x
	}
	v.bad.Add(1)
	return 0
}

// transition blends from whatever was audible into a new source. from is
// filled in by the audio goroutine when it picks the transition up.
type transition struct {
	from   source
	to     source
	shape  fade.Shape
	frames int
	pos    int
}

func (t *transition) done() bool {
	return t.pos >= t.frames
}

func (t *transition) stereo(clock uint64) (float64, float64) {
	if t.done() {
		return t.to.stereo(clock)
	}

	fl, fr := t.from.stereo(clock)
	tl, tr := t.to.stereo(clock)
	gOut, gIn := t.shape.Gains(float64(t.pos) / float64(t.frames))
	t.pos++

	return fl*gOut + tl*gIn, fr*gOut + tr*gIn
}

// playing returns the voice in src that plays u, if any.
func playing(src source, u graph.Unit) *voice {
	switch s := src.(type) {
	case *voice:
		if s.unit == u {
			return s
		}
	case *transition:
		if v := playing(s.to, u); v != nil {
			return v
		}
		return playing(s.from, u)
	}
	return nil
}

// sharesLive reports whether a voice in src ticks a live backend v also
// ticks.
func sharesLive(src source, v *voice) bool {
	switch s := src.(type) {
	case *voice:
		for _, a := range s.live {
			for _, b := range v.live {
				if a == b {
					return true
				}
			}
		}
	case *transition:
		return sharesLive(s.to, v) || sharesLive(s.from, v)
	}
	return false
}
