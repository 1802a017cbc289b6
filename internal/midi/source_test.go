package midi

import (
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-livecode/dsp/core"
	"github.com/cwbudde/algo-livecode/dsp/graph"
)

func sample(t *testing.T, u graph.Unit) float64 {
	t.Helper()
	out := make([]float64, u.Outputs())
	u.Tick(nil, out)
	return out[0]
}

func TestLastNotePriority(t *testing.T) {
	s := NewVirtual("test")
	pitch, gate := s.Pitch(), s.Gate()

	assert.Equal(t, 0.0, sample(t, gate))

	s.NoteOn(60, 127)
	s.NoteOn(64, 64)
	assert.InDelta(t, core.MIDIToHz(64), sample(t, pitch), 1e-9)
	assert.Equal(t, 1.0, sample(t, gate))
	assert.InDelta(t, 64.0/127, sample(t, s.Velocity()), 1e-12)

	s.NoteOff(64)
	assert.InDelta(t, core.MIDIToHz(60), s.PitchHz(), 1e-9)
	assert.Equal(t, 1.0, sample(t, gate))

	s.NoteOn(60, 0) // running-status note off
	assert.Equal(t, 0.0, sample(t, gate))
	assert.Equal(t, 0, s.Held())
	assert.Equal(t, uint64(4), s.Events())
}

func TestRepeatedKeyIsHeldOnce(t *testing.T) {
	s := NewVirtual("test")
	s.NoteOn(60, 100)
	s.NoteOn(60, 100)
	assert.Equal(t, 1, s.Held())

	s.NoteOff(60)
	assert.Equal(t, 0, s.Held())
}

func TestControllers(t *testing.T) {
	s := NewVirtual("test")
	cc, err := s.CC(74)
	require.NoError(t, err)

	s.Control(74, 127)
	assert.Equal(t, 1.0, sample(t, cc))

	_, err = s.CC(128)
	assert.ErrorIs(t, err, ErrController)
}

func TestHandleDecodesMessages(t *testing.T) {
	s := NewVirtual("test")

	s.handle(gomidi.NoteOn(0, 69, 100), 0)
	assert.InDelta(t, 440.0, s.PitchHz(), 1e-9)
	assert.Equal(t, 1, s.Held())

	s.handle(gomidi.ControlChange(0, 1, 64), 0)
	mod, _ := s.CC(1)
	assert.InDelta(t, 64.0/127, sample(t, mod), 1e-12)

	s.handle(gomidi.NoteOff(0, 69), 0)
	assert.Equal(t, 0, s.Held())
}

func TestCloseVirtualIsNoop(t *testing.T) {
	s := NewVirtual("test")
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Equal(t, "midi(test)", s.String())
}
