package unit

import (
	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/ring"
)

// Input reads one capture stream. An empty stream yields silence. The
// stream has a single consumer, so only one clone should be playing.
type Input struct {
	stream *ring.Stream
}

// NewInput returns a unit reading s.
func NewInput(s *ring.Stream) *Input { return &Input{stream: s} }

func (i *Input) Inputs() int  { return 0 }
func (i *Input) Outputs() int { return 1 }

func (i *Input) Tick(_, out []float64) { out[0] = i.stream.Read() }

func (i *Input) Reset()                {}
func (i *Input) SetSampleRate(float64) {}
func (i *Input) Clone() graph.Unit     { return &Input{stream: i.stream} }
