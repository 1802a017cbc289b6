package slot

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-livecode/dsp/core"
	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/dsp/graph"
)

var (
	// ErrClosed reports a Set after Close.
	ErrClosed = errors.New("slot: closed")
	// ErrFadeTime reports a negative or non-finite fade time.
	ErrFadeTime = errors.New("slot: invalid fade time")
)

// Slot is the single live unit feeding the audio device.
//
// Set, Stop and Close may be called from one control goroutine while
// GetStereo or Process run on the audio goroutine.
type Slot struct {
	sampleRate float64
	limit      float64

	pending atomic.Pointer[transition]
	closed  atomic.Bool

	// Owned by the control goroutine.
	last graph.Unit

	// Owned by the audio goroutine.
	current source
	clock   uint64

	frames    atomic.Uint64
	swaps     atomic.Uint64
	nonFinite atomic.Uint64
}

// New returns a silent Slot.
func New(opts ...core.ProcessorOption) *Slot {
	cfg := core.ApplyProcessorOptions(opts...)
	return &Slot{
		sampleRate: cfg.SampleRate,
		limit:      cfg.Limit,
		current:    silence{},
	}
}

// SampleRate returns the rate units are configured for.
func (s *Slot) SampleRate() float64 {
	return s.sampleRate
}

// Set begins a transition to u over seconds. A pending transition the audio
// side has not picked up yet is discarded; a running one is faded out as a
// whole. A nil u fades to silence. Setting a unit that is already audible,
// or one sharing a live backend with the audible output, switches without
// a crossfade.
func (s *Slot) Set(shape fade.Shape, seconds float64, u graph.Unit) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("%w: %g", ErrFadeTime, seconds)
	}

	var to source = silence{}
	if u != nil {
		if u != s.last {
			u.SetSampleRate(s.sampleRate)
		}
		to = newVoice(u, &s.nonFinite)
	}
	s.last = u

	t := &transition{
		to:     to,
		shape:  shape,
		frames: int(math.Round(seconds * s.sampleRate)),
	}
	s.pending.Swap(t)
	return nil
}

// Stop fades the output to silence over seconds.
func (s *Slot) Stop(seconds float64) error {
	return s.Set(fade.Smooth, seconds, nil)
}

// Close rejects further Set calls. Output already playing keeps running
// until the device stops calling GetStereo.
func (s *Slot) Close() {
	s.closed.Store(true)
}

// Pending reports whether a published transition awaits the audio side.
func (s *Slot) Pending() bool {
	return s.pending.Load() != nil
}

// GetStereo produces one stereo frame. Audio goroutine only.
func (s *Slot) GetStereo() (left, right float64) {
	left, right = s.next()
	s.frames.Add(1)
	return left, right
}

// Process fills one block. Audio goroutine only.
func (s *Slot) Process(left, right []float64) {
	n := min(len(left), len(right))
	for i := range n {
		left[i], right[i] = s.next()
	}
	s.frames.Add(uint64(n))
}

func (s *Slot) next() (float64, float64) {
	if t := s.pending.Swap(nil); t != nil {
		s.swaps.Add(1)
		s.current = s.begin(t)
	}

	s.clock++
	l, r := s.current.stereo(s.clock)

	if t, ok := s.current.(*transition); ok && t.done() {
		s.current = t.to
	}

	return s.deliver(l), s.deliver(r)
}

// begin starts t from the audible source. A unit that is already audible
// keeps its voice. A unit sharing a live backend with the audible source
// replaces it at once, so the backend is ticked once per frame.
func (s *Slot) begin(t *transition) source {
	v, ok := t.to.(*voice)
	if !ok {
		t.from = s.current
		return t
	}
	if live := playing(s.current, v.unit); live != nil {
		if live == s.current {
			return live
		}
		t.to = live
	} else if sharesLive(s.current, v) {
		return v
	}
	t.from = s.current
	return t
}

func (s *Slot) deliver(x float64) float64 {
	if !core.IsFinite(x) {
		s.nonFinite.Add(1)
		return 0
	}
	return core.Clamp(x, -s.limit, s.limit)
}

// Frames returns the number of frames produced.
func (s *Slot) Frames() uint64 { return s.frames.Load() }

// Swaps returns the number of transitions the audio side has started.
func (s *Slot) Swaps() uint64 { return s.swaps.Load() }

// NonFinite returns the number of NaN or infinite samples replaced by silence.
func (s *Slot) NonFinite() uint64 { return s.nonFinite.Load() }
