package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-livecode/dsp/buffer"
	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/sequencer"
	"github.com/cwbudde/algo-livecode/dsp/unit"
	"github.com/cwbudde/algo-livecode/internal/midi"
)

// Kind is the domain tag of a Value.
type Kind int

// Kinds are declared in resolution order.
const (
	KindScalar Kind = iota
	KindGraph
	KindArray
	KindNode
	KindBool
	KindCell
	KindWave
	KindSequencer
	KindSource
	KindEvent
	KindString
)

var kindNames = [...]string{
	KindScalar:    "scalar",
	KindGraph:     "graph",
	KindArray:     "array",
	KindNode:      "node",
	KindBool:      "bool",
	KindCell:      "cell",
	KindWave:      "wave",
	KindSequencer: "sequencer",
	KindSource:    "source",
	KindEvent:     "event",
	KindString:    "string",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ResolutionOrder returns the order in which domains are tried.
func ResolutionOrder() []Kind {
	return []Kind{
		KindScalar, KindGraph, KindArray, KindNode, KindBool, KindCell,
		KindWave, KindSequencer, KindSource, KindEvent, KindString,
	}
}

// Value is a tagged environment value. The set of implementations is
// closed.
type Value interface {
	Kind() Kind
	String() string
	value()
}

type (
	// Scalar is a number.
	Scalar float64
	// Array is an ordered list of numbers.
	Array []float64
	// Bool is a boolean.
	Bool bool
	// String is text.
	String string
	// Node is a handle into a graph.
	Node graph.NodeHandle
	// Event is a handle into a sequencer.
	Event sequencer.EventHandle

	// Graph holds a graph by value: reading it through a name clones it.
	Graph struct{ G *graph.Graph }
	// Cell is a shared atomic scalar.
	Cell struct{ C *unit.Shared }
	// Wave is an audio buffer.
	Wave struct{ W *buffer.Wave }
	// Sequencer is an event timeline, shared by reference.
	Sequencer struct{ S *sequencer.Sequencer }
	// Source is a MIDI event source, shared by reference.
	Source struct{ S *midi.Source }
)

func (Scalar) Kind() Kind    { return KindScalar }
func (Array) Kind() Kind     { return KindArray }
func (Bool) Kind() Kind      { return KindBool }
func (String) Kind() Kind    { return KindString }
func (Node) Kind() Kind      { return KindNode }
func (Event) Kind() Kind     { return KindEvent }
func (Graph) Kind() Kind     { return KindGraph }
func (Cell) Kind() Kind      { return KindCell }
func (Wave) Kind() Kind      { return KindWave }
func (Sequencer) Kind() Kind { return KindSequencer }
func (Source) Kind() Kind    { return KindSource }

func (Scalar) value()    {}
func (Array) value()     {}
func (Bool) value()      {}
func (String) value()    {}
func (Node) value()      {}
func (Event) value()     {}
func (Graph) value()     {}
func (Cell) value()      {}
func (Wave) value()      {}
func (Sequencer) value() {}
func (Source) value()    {}

func (v Scalar) String() string { return formatNumber(float64(v)) }
func (v Bool) String() string   { return strconv.FormatBool(bool(v)) }
func (v String) String() string { return strconv.Quote(string(v)) }
func (v Node) String() string   { return graph.NodeHandle(v).String() }
func (v Event) String() string  { return sequencer.EventHandle(v).String() }
func (v Graph) String() string  { return v.G.String() }
func (v Cell) String() string   { return v.C.String() }
func (v Wave) String() string   { return v.W.String() }

func (v Sequencer) String() string { return v.S.String() }
func (v Source) String() string    { return v.S.String() }

func (v Array) String() string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = formatNumber(x)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatNumber(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
