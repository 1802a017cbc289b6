package graph

import (
	"math"

	"github.com/cwbudde/algo-livecode/dsp/fade"
)

// Blend crossfades from one unit to another of the same arity. Both run
// while the transition lasts; afterwards only the target runs and the old
// unit is released.
type Blend struct {
	old     Unit
	target  Unit
	shape   fade.Shape
	seconds float64
	frames  int
	pos     int
	oldOut  []float64
}

// NewBlend returns a Blend from old to target over seconds. old may be nil,
// in which case the target plays alone.
func NewBlend(old, target Unit, shape fade.Shape, seconds float64) *Blend {
	b := &Blend{
		old:     old,
		target:  target,
		shape:   shape,
		seconds: math.Max(seconds, 0),
		oldOut:  make([]float64, target.Outputs()),
	}
	b.frames = framesFor(b.seconds, DefaultSampleRate)
	return b
}

// Inputs returns the target's input count.
func (b *Blend) Inputs() int { return b.target.Inputs() }

// Outputs returns the target's output count.
func (b *Blend) Outputs() int { return b.target.Outputs() }

// Done reports whether the transition has completed.
func (b *Blend) Done() bool {
	return b.old == nil || b.pos >= b.frames
}

// Target returns the incoming unit.
func (b *Blend) Target() Unit {
	return b.target
}

// Progress returns the transition position in [0, 1].
func (b *Blend) Progress() float64 {
	if b.Done() {
		return 1
	}
	return float64(b.pos) / float64(b.frames)
}

// Tick mixes both units by the fade gains for the current position.
func (b *Blend) Tick(in, out []float64) {
	if b.Done() {
		b.old = nil
		b.target.Tick(in, out)
		return
	}

	b.old.Tick(in, b.oldOut)
	b.target.Tick(in, out)

	gOut, gIn := b.shape.Gains(float64(b.pos) / float64(b.frames))
	for i := range out {
		out[i] = b.oldOut[i]*gOut + out[i]*gIn
	}

	b.pos++
	if b.pos >= b.frames {
		b.old = nil
	}
}

// Reset resets both units. The transition position is kept.
func (b *Blend) Reset() {
	if b.old != nil {
		b.old.Reset()
	}
	b.target.Reset()
	clear(b.oldOut)
}

// SetSampleRate rescales the transition length and forwards the rate.
func (b *Blend) SetSampleRate(sampleRate float64) {
	if sampleRate <= 0 {
		return
	}
	if b.old != nil {
		b.old.SetSampleRate(sampleRate)
	}
	b.target.SetSampleRate(sampleRate)

	progress := 0.0
	if b.frames > 0 {
		progress = float64(b.pos) / float64(b.frames)
	}
	b.frames = framesFor(b.seconds, sampleRate)
	b.pos = int(progress * float64(b.frames))
}

// Clone copies the transition in its current state. A completed blend
// clones to its target.
func (b *Blend) Clone() Unit {
	if b.Done() {
		return b.target.Clone()
	}
	return &Blend{
		old:     b.old.Clone(),
		target:  b.target.Clone(),
		shape:   b.shape,
		seconds: b.seconds,
		frames:  b.frames,
		pos:     b.pos,
		oldOut:  make([]float64, len(b.oldOut)),
	}
}

// IsLive reports whether either side of the blend is live.
func (b *Blend) IsLive() bool {
	return IsLive(b.target) || (b.old != nil && IsLive(b.old))
}

func framesFor(seconds, sampleRate float64) int {
	return int(math.Round(seconds * sampleRate))
}
