package unit

import (
	"github.com/cwbudde/algo-livecode/dsp/buffer"
	"github.com/cwbudde/algo-livecode/dsp/graph"
)

// Player plays a Wave, one output per channel. Without looping it falls
// silent at the end. The Wave is shared between clones and never written.
type Player struct {
	wave *buffer.Wave
	loop bool
	pos  int
}

// NewPlayer returns a player starting at the first frame.
func NewPlayer(w *buffer.Wave, loop bool) *Player {
	return &Player{wave: w, loop: loop}
}

func (p *Player) Inputs() int  { return 0 }
func (p *Player) Outputs() int { return p.wave.Channels() }

func (p *Player) Tick(_, out []float64) {
	n := p.wave.Len()
	if p.loop && n > 0 && p.pos >= n {
		p.pos = 0
	}
	for ch := range out {
		out[ch] = p.wave.At(ch, p.pos)
	}
	if p.pos < n {
		p.pos++
	}
}

func (p *Player) Reset()                { p.pos = 0 }
func (p *Player) SetSampleRate(float64) {}

func (p *Player) Clone() graph.Unit {
	return &Player{wave: p.wave, loop: p.loop, pos: p.pos}
}
