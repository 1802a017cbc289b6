package midi

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"github.com/cwbudde/algo-livecode/dsp/core"
	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/unit"
	"github.com/cwbudde/algo-livecode/internal/logging"
)

// ErrController reports a controller number outside 0..127.
var ErrController = errors.New("midi: controller out of range")

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger used for port events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) { s.log = l }
}

// Source is a stream of note and controller events.
type Source struct {
	name string
	log  *slog.Logger

	pitch    *unit.Shared // hertz of the last held note
	gate     *unit.Shared // 1 while any note is held
	velocity *unit.Shared // 0..1
	cc       [128]*unit.Shared

	mu   sync.Mutex
	held []uint8
	stop func()

	events atomic.Uint64
}

func newSource(name string, opts []Option) *Source {
	s := &Source{
		name:     name,
		log:      logging.NewNop(),
		pitch:    unit.NewShared(core.MIDIToHz(69)),
		gate:     unit.NewShared(0),
		velocity: unit.NewShared(0),
	}
	for i := range s.cc {
		s.cc[i] = unit.NewShared(0)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewVirtual returns a source that is driven only by method calls.
func NewVirtual(name string, opts ...Option) *Source {
	return newSource(name, opts)
}

// Open listens on an input port. port is either a decimal index into Ports
// or a port name accepted by gomidi.FindInPort.
func Open(port string, opts ...Option) (*Source, error) {
	in, err := findPort(port)
	if err != nil {
		return nil, err
	}

	s := newSource(in.String(), opts)
	stop, err := gomidi.ListenTo(in, s.handle)
	if err != nil {
		return nil, fmt.Errorf("midi: listen on %s: %w", in, err)
	}
	s.stop = stop

	s.log.Info("midi input opened", "port", in.String())
	return s, nil
}

// Ports lists the input ports of the registered driver.
func Ports() []string {
	ins := gomidi.GetInPorts()
	names := make([]string, len(ins))
	for i, in := range ins {
		names[i] = in.String()
	}
	return names
}

func findPort(port string) (drivers.In, error) {
	if i, err := strconv.Atoi(port); err == nil {
		ins := gomidi.GetInPorts()
		if i < 0 || i >= len(ins) {
			return nil, fmt.Errorf("midi: no input port %d (%d available)", i, len(ins))
		}
		return ins[i], nil
	}

	in, err := gomidi.FindInPort(port)
	if err != nil {
		return nil, fmt.Errorf("midi: input port %q: %w", port, err)
	}
	return in, nil
}

func (s *Source) handle(msg gomidi.Message, _ int32) {
	var ch, key, vel, ctl, val uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		s.NoteOn(key, vel)
	case msg.GetNoteEnd(&ch, &key):
		s.NoteOff(key)
	case msg.GetControlChange(&ch, &ctl, &val):
		s.Control(ctl, val)
	}
}

// Name returns the port name.
func (s *Source) Name() string { return s.name }

func (s *Source) String() string { return fmt.Sprintf("midi(%s)", s.name) }

// NoteOn presses key. The newest held key sets pitch and velocity.
func (s *Source) NoteOn(key, velocity uint8) {
	if velocity == 0 {
		s.NoteOff(key)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.held = slices.DeleteFunc(s.held, func(k uint8) bool { return k == key })
	s.held = append(s.held, key)

	s.pitch.Set(core.MIDIToHz(float64(key)))
	s.velocity.Set(float64(velocity) / 127)
	s.gate.Set(1)
	s.events.Add(1)
}

// NoteOff releases key. Pitch falls back to the previous held key; the
// gate closes when nothing is held.
func (s *Source) NoteOff(key uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.held = slices.DeleteFunc(s.held, func(k uint8) bool { return k == key })
	if n := len(s.held); n > 0 {
		s.pitch.Set(core.MIDIToHz(float64(s.held[n-1])))
	} else {
		s.gate.Set(0)
	}
	s.events.Add(1)
}

// Control sets controller n to value/127.
func (s *Source) Control(n, value uint8) {
	if int(n) >= len(s.cc) {
		return
	}
	s.cc[n].Set(float64(value) / 127)
	s.events.Add(1)
}

// PitchHz returns the current pitch.
func (s *Source) PitchHz() float64 { return s.pitch.Value() }

// Held returns the number of held keys.
func (s *Source) Held() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.held)
}

// Events returns the number of messages applied.
func (s *Source) Events() uint64 { return s.events.Load() }

// Pitch returns a unit producing the pitch in hertz.
func (s *Source) Pitch() graph.Unit { return unit.NewVar(s.pitch) }

// Gate returns a unit producing 1 while a key is held and 0 otherwise.
func (s *Source) Gate() graph.Unit { return unit.NewVar(s.gate) }

// Velocity returns a unit producing the last velocity in 0..1.
func (s *Source) Velocity() graph.Unit { return unit.NewVar(s.velocity) }

// CC returns a unit producing controller n in 0..1.
func (s *Source) CC(n int) (graph.Unit, error) {
	if n < 0 || n >= len(s.cc) {
		return nil, fmt.Errorf("%w: %d", ErrController, n)
	}
	return unit.NewVar(s.cc[n]), nil
}

// Close stops listening. Units already built keep their last values.
func (s *Source) Close() error {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		stop()
		s.log.Info("midi input closed", "port", s.name)
	}
	return nil
}
