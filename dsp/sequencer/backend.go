package sequencer

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/ring"
)

// Backend is the real-time side of a Sequencer: a unit with no inputs and
// one output per sequencer channel. There is exactly one instance per
// sequencer and Clone returns it unchanged.
type Backend struct {
	outputs int
	replay  bool
	queue   *ring.Queue[message]

	// Owned by the audio goroutine.
	mix        Mix
	head, tail *event
	acc        []float64
	frame      uint64
	sr         float64

	rate    atomic.Uint64
	now     atomic.Uint64
	active  atomic.Int64
	running atomic.Bool
}

func (b *Backend) Inputs() int  { return 0 }
func (b *Backend) Outputs() int { return b.outputs }

// Tick applies queued changes and renders one frame.
func (b *Backend) Tick(_, out []float64) {
	if !b.running.Load() {
		b.running.Store(true)
	}
	b.drain()

	t := float64(b.frame) / b.sr
	clear(b.acc)

	active := 0
	var prev *event
	for ev := b.head; ev != nil; {
		next := ev.next

		switch {
		case t >= ev.end:
			ev.state.Store(uint32(Finished))
			if !b.replay {
				b.unlink(prev, ev)
				ev = next
				continue
			}
		case t >= ev.start:
			ev.state.Store(uint32(Active))
			ev.unit.Tick(nil, ev.out)
			g := ev.gain(t)
			for i, x := range ev.out {
				b.acc[i] += g * x
			}
			active++
		default:
			ev.state.Store(uint32(Scheduled))
		}

		prev = ev
		ev = next
	}

	scale := 1.0
	if b.mix == MixAverage && active > 1 {
		scale = 1 / float64(active)
	}
	for i := range out {
		out[i] = b.acc[i] * scale
	}

	b.frame++
	b.now.Store(math.Float64bits(float64(b.frame) / b.sr))
	b.active.Store(int64(active))
}

// Time returns the play time of the next frame in seconds.
func (b *Backend) Time() float64 {
	return math.Float64frombits(b.now.Load())
}

// ActiveEvents returns how many events played in the last frame.
func (b *Backend) ActiveEvents() int {
	return int(b.active.Load())
}

// Running reports whether the backend has been ticked.
func (b *Backend) Running() bool {
	return b.running.Load()
}

// Reset rewinds play time. Once playback has started, use Sequencer.Reset
// instead; calls from outside the audio goroutine are ignored then.
func (b *Backend) Reset() {
	if b.running.Load() {
		return
	}
	b.rewind()
}

// SetSampleRate changes the play-time base and every event unit. It only
// has an effect before playback starts.
func (b *Backend) SetSampleRate(sr float64) {
	if b.running.Load() || !(sr > 0) {
		return
	}

	b.sr = sr
	b.rate.Store(math.Float64bits(sr))
	for ev := b.head; ev != nil; ev = ev.next {
		ev.unit.SetSampleRate(sr)
	}
}

// SampleRate returns the play-time base.
func (b *Backend) SampleRate() float64 {
	return math.Float64frombits(b.rate.Load())
}

// Clone returns b itself.
func (b *Backend) Clone() graph.Unit { return b }

// IsLive always reports true.
func (b *Backend) IsLive() bool { return true }

func (b *Backend) String() string {
	return fmt.Sprintf("sequencer.backend(out=%d, t=%.3f)", b.outputs, b.Time())
}

func (b *Backend) drain() {
	for {
		m, ok := b.queue.TryPop()
		if !ok {
			return
		}

		switch m.op {
		case opPush:
			b.append(m.ev)
		case opEdit:
			m.ev.end, m.ev.fadeOut = m.end, m.fadeOut
		case opReset:
			b.rewind()
		case opMix:
			b.mix = m.mix
		}
	}
}

func (b *Backend) rewind() {
	b.frame = 0
	b.now.Store(0)
	for ev := b.head; ev != nil; ev = ev.next {
		ev.unit.Reset()
		ev.state.Store(uint32(Scheduled))
	}
}

func (b *Backend) append(ev *event) {
	if b.tail == nil {
		b.head = ev
	} else {
		b.tail.next = ev
	}
	b.tail = ev
}

func (b *Backend) unlink(prev, ev *event) {
	if prev == nil {
		b.head = ev.next
	} else {
		prev.next = ev.next
	}
	if b.tail == ev {
		b.tail = prev
	}
	ev.next = nil
}
