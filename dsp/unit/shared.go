package unit

import (
	"math"
	"strconv"
	"sync/atomic"

	"github.com/cwbudde/algo-livecode/dsp/graph"
)

// Shared is a float64 cell read and written without locks. One Set is one
// atomic store; one Value is one atomic load.
type Shared struct {
	bits atomic.Uint64
}

// NewShared returns a cell holding x.
func NewShared(x float64) *Shared {
	s := &Shared{}
	s.Set(x)
	return s
}

// Set stores x.
func (s *Shared) Set(x float64) { s.bits.Store(math.Float64bits(x)) }

// Value loads the current value.
func (s *Shared) Value() float64 { return math.Float64frombits(s.bits.Load()) }

// String renders the cell for transcripts.
func (s *Shared) String() string {
	return "shared(" + strconv.FormatFloat(s.Value(), 'g', -1, 64) + ")"
}

// Var outputs the current value of a Shared cell every frame. Clones read
// the same cell.
type Var struct {
	cell *Shared
}

// NewVar returns a unit reading cell.
func NewVar(cell *Shared) *Var { return &Var{cell: cell} }

// Cell returns the cell the unit reads.
func (v *Var) Cell() *Shared { return v.cell }

func (v *Var) Inputs() int  { return 0 }
func (v *Var) Outputs() int { return 1 }

func (v *Var) Tick(_, out []float64) { out[0] = v.cell.Value() }

func (v *Var) Reset()                {}
func (v *Var) SetSampleRate(float64) {}
func (v *Var) Clone() graph.Unit     { return &Var{cell: v.cell} }
