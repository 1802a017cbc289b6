package unit

import (
	"math/rand/v2"

	"github.com/cwbudde/algo-livecode/dsp/graph"
)

// Noise emits uniform white noise in [-1, 1). Reset restarts the sequence.
type Noise struct {
	seed uint64
	rng  *rand.Rand
}

// NewNoise returns a noise source with a reproducible sequence.
func NewNoise(seed uint64) *Noise {
	return &Noise{seed: seed, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (n *Noise) Inputs() int  { return 0 }
func (n *Noise) Outputs() int { return 1 }

func (n *Noise) Tick(_, out []float64) {
	out[0] = n.rng.Float64()*2 - 1
}

func (n *Noise) Reset() {
	n.rng = rand.New(rand.NewPCG(n.seed, n.seed^0x9e3779b97f4a7c15))
}

func (n *Noise) SetSampleRate(float64) {}

func (n *Noise) Clone() graph.Unit { return NewNoise(n.seed) }
