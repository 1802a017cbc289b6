package graph

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/dsp/ring"
)

// DefaultCommitQueue is the number of commits that may be in flight.
const DefaultCommitQueue = 64

type changeKind uint8

const (
	changeKeep changeKind = iota
	changeFresh
	changeBlend
)

type change struct {
	kind    changeKind
	shape   fade.Shape
	seconds float64
}

type fillKind uint8

const (
	fillCarry fillKind = iota
	fillBlendOld
)

type fill struct {
	index int
	kind  fillKind
}

// program is a compiled snapshot plus the slots the audio side completes
// from its running graph.
type program struct {
	graph *Graph
	fills []fill
}

// Backend is the real-time half of a live Graph. It is a Unit that plays
// the last committed state of its frontend; the frontend keeps editing its
// own structure and publishes with Commit.
//
// Tick, and nothing else, runs on the audio goroutine.
type Backend struct {
	inputs  int
	outputs int

	live    *Graph
	queue   *ring.Queue[*program]
	running atomic.Bool
	commits atomic.Uint64
	rate    atomic.Uint64
}

// BackendOption configures Backend creation.
type BackendOption func(*backendConfig)

type backendConfig struct {
	queue int
}

// WithCommitQueue sets the number of commits that may be pending at once.
func WithCommitQueue(n int) BackendOption {
	return func(c *backendConfig) {
		if n > 0 {
			c.queue = n
		}
	}
}

// Backend attaches a live backend on first call and returns it. Later calls
// return the same backend. The backend starts from a copy of the current
// state; subsequent edits reach it through Commit.
func (g *Graph) Backend(opts ...BackendOption) (*Backend, error) {
	if g.backend != nil {
		return g.backend, nil
	}

	cfg := backendConfig{queue: DefaultCommitQueue}
	for _, opt := range opts {
		opt(&cfg)
	}

	q, err := ring.NewQueue[*program](cfg.queue)
	if err != nil {
		return nil, fmt.Errorf("graph: backend queue: %w", err)
	}

	g.backend = &Backend{
		inputs:  g.inputs,
		outputs: g.outputs,
		live:    g.CloneGraph(),
		queue:   q,
	}
	g.backend.rate.Store(math.Float64bits(g.sampleRate))
	g.changes = make([]change, len(g.nodes))
	return g.backend, nil
}

// HasBackend reports whether a backend is attached.
func (g *Graph) HasBackend() bool {
	return g.backend != nil
}

// Commit publishes pending edits to the backend. Nodes that were not
// touched since the last commit keep their running state on the audio
// side, and crossfades blend from the unit the backend is playing. Without
// a backend Commit does nothing. On ErrBackendBusy the edits stay pending.
func (g *Graph) Commit() error {
	if g.backend == nil {
		return nil
	}

	g.growChanges()

	snap := &Graph{
		inputs:     g.inputs,
		outputs:    g.outputs,
		nodes:      make([]node, len(g.nodes)),
		outSrc:     append([]source(nil), g.outSrc...),
		sampleRate: g.sampleRate,
	}
	var fills []fill

	for i, n := range g.nodes {
		sn := n
		sn.in = append([]source(nil), n.in...)
		sn.unit = nil

		if n.live {
			switch c := g.changes[i]; c.kind {
			case changeKeep:
				fills = append(fills, fill{index: i, kind: fillCarry})
			case changeFresh:
				sn.unit = n.unit.Clone()
				sn.unit.SetSampleRate(g.sampleRate)
			case changeBlend:
				b := NewBlend(nil, n.unit.Clone(), c.shape, c.seconds)
				b.SetSampleRate(g.sampleRate)
				sn.unit = b
				fills = append(fills, fill{index: i, kind: fillBlendOld})
			}
		}
		snap.nodes[i] = sn
	}

	snap.compile()

	if !g.backend.queue.TryPush(&program{graph: snap, fills: fills}) {
		return ErrBackendBusy
	}

	clear(g.changes)
	return nil
}

func (g *Graph) growChanges() {
	for len(g.changes) < len(g.nodes) {
		g.changes = append(g.changes, change{kind: changeFresh})
	}
}

func (g *Graph) markFresh(idx int) {
	if g.backend == nil {
		return
	}
	g.growChanges()
	g.changes[idx] = change{kind: changeFresh}
}

func (g *Graph) markBlend(idx int, shape fade.Shape, seconds float64) {
	if g.backend == nil {
		return
	}
	g.growChanges()
	if g.changes[idx].kind == changeFresh {
		return
	}
	g.changes[idx] = change{kind: changeBlend, shape: shape, seconds: seconds}
}

// Inputs returns the frontend's global input count.
func (b *Backend) Inputs() int { return b.inputs }

// Outputs returns the frontend's global output count.
func (b *Backend) Outputs() int { return b.outputs }

// Tick applies every pending commit in order, then evaluates one frame.
func (b *Backend) Tick(in, out []float64) {
	if !b.running.Load() {
		b.running.Store(true)
	}

	for {
		p, ok := b.queue.TryPop()
		if !ok {
			break
		}
		b.apply(p)
	}

	b.live.Tick(in, out)
}

func (b *Backend) apply(p *program) {
	for _, f := range p.fills {
		prev := b.live.nodes[f.index].unit
		switch f.kind {
		case fillCarry:
			p.graph.nodes[f.index].unit = prev
		case fillBlendOld:
			p.graph.nodes[f.index].unit.(*Blend).old = prev
		}
	}
	b.live = p.graph
	b.commits.Add(1)
}

// Reset clears the live graph state. It has no effect once playback started.
func (b *Backend) Reset() {
	if !b.running.Load() {
		b.live.Reset()
	}
}

// SetSampleRate applies to the live graph until playback starts. Later
// commits use the frontend's rate.
func (b *Backend) SetSampleRate(sampleRate float64) {
	if !b.running.Load() && sampleRate > 0 {
		b.live.SetSampleRate(sampleRate)
		b.rate.Store(math.Float64bits(sampleRate))
	}
}

// SampleRate returns the rate the live graph was configured for.
func (b *Backend) SampleRate() float64 {
	return math.Float64frombits(b.rate.Load())
}

// Clone returns b itself: a backend has exactly one audible instance.
func (b *Backend) Clone() Unit {
	return b
}

// Commits returns the number of commits applied on the audio side.
func (b *Backend) Commits() uint64 {
	return b.commits.Load()
}

// Running reports whether the backend has been ticked.
func (b *Backend) Running() bool {
	return b.running.Load()
}

// String renders the backend for transcripts.
func (b *Backend) String() string {
	return fmt.Sprintf("backend(in=%d, out=%d)", b.inputs, b.outputs)
}

// IsLive always reports true.
func (b *Backend) IsLive() bool {
	return true
}
