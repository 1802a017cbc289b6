package sequencer

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/ring"
)

// DefaultQueue is the default capacity of the frontend to backend queue.
const DefaultQueue = 1024

// minSweep is the event count below which finished events are not swept.
const minSweep = 64

var (
	// ErrArity reports an event unit with inputs or the wrong output count.
	ErrArity = errors.New("sequencer: arity mismatch")
	// ErrTime reports a negative start, non-finite times or an empty event.
	ErrTime = errors.New("sequencer: invalid event time")
	// ErrFade reports a fade longer than the event.
	ErrFade = errors.New("sequencer: fade exceeds event duration")
	// ErrHandle reports a handle this sequencer did not issue.
	ErrHandle = errors.New("sequencer: unknown event")
	// ErrFinished reports an edit of an event that was dropped after
	// finishing.
	ErrFinished = errors.New("sequencer: event finished")
	// ErrBusy reports a full backend queue.
	ErrBusy = errors.New("sequencer: backend queue full")
)

var sequencerIDs atomic.Uint64

// Option configures a Sequencer.
type Option func(*config)

type config struct {
	sampleRate float64
	queue      int
}

// WithSampleRate sets the rate event units are prepared for until the
// backend is attached to an output.
func WithSampleRate(sr float64) Option {
	return func(c *config) {
		if sr > 0 {
			c.sampleRate = sr
		}
	}
}

// WithQueue sets the backend queue capacity.
func WithQueue(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.queue = n
		}
	}
}

// Sequencer is the control-side frontend of an event timeline. It is not
// safe for concurrent use; only its Backend runs on the audio goroutine.
type Sequencer struct {
	id      uint64
	replay  bool
	outputs int
	cfg     config
	mix     Mix

	nextID  uint64
	entries map[uint64]*entry
	sweepAt int
	staged  []*event

	queue   *ring.Queue[message]
	backend *Backend
}

// New returns an empty sequencer with the given output width. With replay
// set, events that finished become schedulable again after Reset.
func New(replay bool, outputs int, opts ...Option) (*Sequencer, error) {
	if outputs < 1 {
		return nil, fmt.Errorf("%w: %d outputs", ErrArity, outputs)
	}

	cfg := config{sampleRate: graph.DefaultSampleRate, queue: DefaultQueue}
	for _, opt := range opts {
		opt(&cfg)
	}

	q, err := ring.NewQueue[message](cfg.queue)
	if err != nil {
		return nil, err
	}

	return &Sequencer{
		id:      sequencerIDs.Add(1),
		replay:  replay,
		outputs: outputs,
		cfg:     cfg,
		entries: make(map[uint64]*entry),
		sweepAt: minSweep,
		queue:   q,
	}, nil
}

// Outputs returns the output width every event must match.
func (s *Sequencer) Outputs() int { return s.outputs }

// Replay reports whether finished events come back after Reset.
func (s *Sequencer) Replay() bool { return s.replay }

// Len returns the number of events still tracked. Without replay,
// finished events are dropped.
func (s *Sequencer) Len() int { return len(s.entries) }

// Mix returns the mixing policy.
func (s *Sequencer) Mix() Mix { return s.mix }

// SampleRate returns the rate new event units are prepared for.
func (s *Sequencer) SampleRate() float64 {
	if s.backend != nil {
		return math.Float64frombits(s.backend.rate.Load())
	}

	return s.cfg.sampleRate
}

// Time returns the play time published by the backend, in seconds.
func (s *Sequencer) Time() float64 {
	if s.backend == nil {
		return 0
	}

	return s.backend.Time()
}

func (s *Sequencer) String() string {
	return fmt.Sprintf("sequencer(out=%d, events=%d, replay=%t)", s.outputs, len(s.entries), s.replay)
}

// Push schedules u over [start, end) seconds of play time. The sequencer
// takes ownership of u. Rejected events produce no handle.
func (s *Sequencer) Push(start, end float64, shape fade.Shape, fadeIn, fadeOut float64, u graph.Unit) (EventHandle, error) {
	return s.push(start, end, end-start, shape, fadeIn, fadeOut, u)
}

// PushRelative is Push with start and end measured from the current play
// time.
func (s *Sequencer) PushRelative(start, end float64, shape fade.Shape, fadeIn, fadeOut float64, u graph.Unit) (EventHandle, error) {
	now := s.Time()
	return s.push(now+start, now+end, end-start, shape, fadeIn, fadeOut, u)
}

// PushDuration schedules u for duration seconds beginning at start.
func (s *Sequencer) PushDuration(start, duration float64, shape fade.Shape, fadeIn, fadeOut float64, u graph.Unit) (EventHandle, error) {
	return s.push(start, start+duration, duration, shape, fadeIn, fadeOut, u)
}

func (s *Sequencer) push(start, end, duration float64, shape fade.Shape, fadeIn, fadeOut float64, u graph.Unit) (EventHandle, error) {
	if u == nil {
		return EventHandle{}, fmt.Errorf("%w: no unit", ErrArity)
	}
	if u.Inputs() != 0 || u.Outputs() != s.outputs {
		return EventHandle{}, fmt.Errorf("%w: event (%d, %d), sequencer (0, %d)",
			ErrArity, u.Inputs(), u.Outputs(), s.outputs)
	}
	if start < 0 || !finite(start) || !finite(end) || !(duration > 0) {
		return EventHandle{}, fmt.Errorf("%w: [%g, %g)", ErrTime, start, end)
	}
	if err := checkFade("fade-in", fadeIn, duration); err != nil {
		return EventHandle{}, err
	}
	if err := checkFade("fade-out", fadeOut, duration); err != nil {
		return EventHandle{}, err
	}

	u.SetSampleRate(s.SampleRate())
	u.Reset()

	ev := &event{
		id:      s.nextID + 1,
		start:   start,
		end:     end,
		shape:   shape,
		fadeIn:  fadeIn,
		fadeOut: fadeOut,
		unit:    u,
		out:     make([]float64, s.outputs),
	}

	if s.backend == nil {
		s.staged = append(s.staged, ev)
	} else if !s.queue.TryPush(message{op: opPush, ev: ev}) {
		return EventHandle{}, ErrBusy
	}

	s.nextID = ev.id
	s.sweep()
	s.entries[ev.id] = &entry{ev: ev, start: start, end: end, fadeIn: fadeIn, fadeOut: fadeOut}
	return EventHandle{seq: s.id, id: ev.id}, nil
}

// Edit moves the end of an event and replaces its fade-out. The fade-in is
// kept and must still fit the new duration.
func (s *Sequencer) Edit(h EventHandle, end, fadeOut float64) error {
	e, err := s.lookup(h)
	if err != nil {
		return err
	}

	duration := end - e.start
	if !finite(end) || !(duration > 0) {
		return fmt.Errorf("%w: [%g, %g)", ErrTime, e.start, end)
	}
	if err := checkFade("fade-in", e.fadeIn, duration); err != nil {
		return err
	}
	if err := checkFade("fade-out", fadeOut, duration); err != nil {
		return err
	}

	if s.backend == nil {
		e.ev.end, e.ev.fadeOut = end, fadeOut
	} else if !s.queue.TryPush(message{op: opEdit, ev: e.ev, end: end, fadeOut: fadeOut}) {
		return ErrBusy
	}

	e.end, e.fadeOut = end, fadeOut
	return nil
}

// EditRelative is Edit with end measured from the current play time.
func (s *Sequencer) EditRelative(h EventHandle, end, fadeOut float64) error {
	return s.Edit(h, s.Time()+end, fadeOut)
}

// Reset rewinds play time to zero.
func (s *Sequencer) Reset() error {
	if s.backend == nil {
		return nil
	}
	if !s.queue.TryPush(message{op: opReset}) {
		return ErrBusy
	}

	return nil
}

// SetAverage selects MixAverage when on is true and MixSum otherwise.
func (s *Sequencer) SetAverage(on bool) error {
	mix := MixSum
	if on {
		mix = MixAverage
	}

	if s.backend != nil && !s.queue.TryPush(message{op: opMix, mix: mix}) {
		return ErrBusy
	}

	s.mix = mix
	return nil
}

// State returns the lifecycle state of an event.
func (s *Sequencer) State(h EventHandle) (State, error) {
	if !s.issued(h) {
		return Scheduled, fmt.Errorf("%w: %v", ErrHandle, h)
	}
	if _, err := s.lookup(h); errors.Is(err, ErrFinished) {
		return Finished, nil
	}

	return State(s.entries[h.id].ev.state.Load()), nil
}

// Backend returns the real-time unit, creating it on first use. Staged
// events move into it.
func (s *Sequencer) Backend() *Backend {
	if s.backend != nil {
		return s.backend
	}

	b := &Backend{
		outputs: s.outputs,
		replay:  s.replay,
		mix:     s.mix,
		queue:   s.queue,
		acc:     make([]float64, s.outputs),
		sr:      s.cfg.sampleRate,
	}
	b.rate.Store(math.Float64bits(s.cfg.sampleRate))
	for _, ev := range s.staged {
		b.append(ev)
	}

	s.staged = nil
	s.backend = b
	return b
}

// issued reports whether h came from this sequencer.
func (s *Sequencer) issued(h EventHandle) bool {
	return h.seq == s.id && h.id > 0 && h.id <= s.nextID
}

// lookup returns the entry for h. A finished event is dropped when replay
// is off; only finished events are ever missing from the map.
func (s *Sequencer) lookup(h EventHandle) (*entry, error) {
	if !s.issued(h) {
		return nil, fmt.Errorf("%w: %v", ErrHandle, h)
	}
	e, ok := s.entries[h.id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrFinished, h)
	}
	if !s.replay && State(e.ev.state.Load()) == Finished {
		delete(s.entries, h.id)
		return nil, fmt.Errorf("%w: %v", ErrFinished, h)
	}

	return e, nil
}

// sweep drops finished events once the map has doubled since the last
// sweep.
func (s *Sequencer) sweep() {
	if s.replay || len(s.entries) < s.sweepAt {
		return
	}
	for id, e := range s.entries {
		if State(e.ev.state.Load()) == Finished {
			delete(s.entries, id)
		}
	}
	s.sweepAt = max(minSweep, 2*len(s.entries))
}

func checkFade(name string, fade, duration float64) error {
	if !(fade >= 0) || fade > duration {
		return fmt.Errorf("%w: %s %g, duration %g", ErrFade, name, fade, duration)
	}

	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
