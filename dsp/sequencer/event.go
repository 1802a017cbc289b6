package sequencer

import (
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/dsp/graph"
)

// State is the lifecycle position of an event.
type State uint32

const (
	// Scheduled events have not started yet.
	Scheduled State = iota
	// Active events are currently audible.
	Active
	// Finished events have passed their end time.
	Finished
)

func (s State) String() string {
	switch s {
	case Scheduled:
		return "scheduled"
	case Active:
		return "active"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// Mix selects how overlapping events are combined.
type Mix int

const (
	// MixSum adds active events.
	MixSum Mix = iota
	// MixAverage divides the sum by the number of active events.
	MixAverage
)

func (m Mix) String() string {
	if m == MixAverage {
		return "average"
	}

	return "sum"
}

// EventHandle identifies an event of the sequencer that issued it.
type EventHandle struct {
	seq uint64
	id  uint64
}

// IsZero reports whether h was never issued.
func (h EventHandle) IsZero() bool { return h.id == 0 }

func (h EventHandle) String() string {
	if h.IsZero() {
		return "event(none)"
	}

	return fmt.Sprintf("event(%d)", h.id)
}

// event is shared between frontend and backend. Timing fields are owned by
// the frontend until the event is published and by the audio goroutine
// afterwards; state is always accessed atomically.
type event struct {
	id      uint64
	start   float64
	end     float64
	shape   fade.Shape
	fadeIn  float64
	fadeOut float64
	unit    graph.Unit
	out     []float64

	state atomic.Uint32
	next  *event
}

func (e *event) gain(t float64) float64 {
	return e.shape.Envelope(t-e.start, e.end-e.start, e.fadeIn, e.fadeOut)
}

// entry is the frontend's copy of an event's timing, used to validate edits
// without touching audio-owned fields.
type entry struct {
	ev      *event
	start   float64
	end     float64
	fadeIn  float64
	fadeOut float64
}

type op uint8

const (
	opPush op = iota
	opEdit
	opReset
	opMix
)

type message struct {
	op      op
	ev      *event
	end     float64
	fadeOut float64
	mix     Mix
}
