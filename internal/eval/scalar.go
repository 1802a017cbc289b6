package eval

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-livecode/dsp/core"
	"github.com/cwbudde/algo-livecode/internal/lang"
)

type mathFunc struct {
	args int
	fn   func(a []float64) float64
}

var mathFuncs = map[string]mathFunc{
	"sin":     {1, func(a []float64) float64 { return math.Sin(a[0]) }},
	"cos":     {1, func(a []float64) float64 { return math.Cos(a[0]) }},
	"tan":     {1, func(a []float64) float64 { return math.Tan(a[0]) }},
	"abs":     {1, func(a []float64) float64 { return math.Abs(a[0]) }},
	"sqrt":    {1, func(a []float64) float64 { return math.Sqrt(a[0]) }},
	"exp":     {1, func(a []float64) float64 { return math.Exp(a[0]) }},
	"ln":      {1, func(a []float64) float64 { return math.Log(a[0]) }},
	"log10":   {1, func(a []float64) float64 { return math.Log10(a[0]) }},
	"floor":   {1, func(a []float64) float64 { return math.Floor(a[0]) }},
	"ceil":    {1, func(a []float64) float64 { return math.Ceil(a[0]) }},
	"round":   {1, func(a []float64) float64 { return math.Round(a[0]) }},
	"pow":     {2, func(a []float64) float64 { return math.Pow(a[0], a[1]) }},
	"min":     {2, func(a []float64) float64 { return math.Min(a[0], a[1]) }},
	"max":     {2, func(a []float64) float64 { return math.Max(a[0], a[1]) }},
	"clamp":   {3, func(a []float64) float64 { return core.Clamp(a[0], a[1], a[2]) }},
	"db_amp":  {1, func(a []float64) float64 { return core.DBToLinear(a[0]) }},
	"amp_db":  {1, func(a []float64) float64 { return core.LinearToDB(a[0]) }},
	"midi_hz": {1, func(a []float64) float64 { return core.MIDIToHz(a[0]) }},
	"hz_midi": {1, func(a []float64) float64 { return core.HzToMIDI(a[0]) }},
}

// scalar evaluates x in the scalar domain.
func (e *Evaluator) scalar(x lang.Expr) (float64, error) {
	switch n := lang.Unparen(x).(type) {
	case *lang.NumberLit:
		return n.Value, nil
	case *lang.Ident:
		if v, ok := e.env.Get(n.Name); ok {
			if s, ok := v.(Scalar); ok {
				return float64(s), nil
			}
			return 0, mismatch(KindScalar, n)
		}
		switch n.Name {
		case "pi":
			return math.Pi, nil
		case "tau":
			return 2 * math.Pi, nil
		}
		return 0, unknown(n.Name)
	case *lang.Unary:
		if n.Op != lang.TokMinus {
			return 0, mismatch(KindScalar, n)
		}
		v, err := e.scalar(n.X)
		return -v, err
	case *lang.Binary:
		return e.scalarBinary(n)
	case *lang.Call:
		return e.scalarCall(n)
	case *lang.Index:
		arr, err := e.array(n.X)
		if err != nil {
			return 0, err
		}
		i, err := e.index(n.Index, len(arr))
		if err != nil {
			return 0, err
		}
		return arr[i], nil
	case *lang.MethodCall:
		return e.scalarMethod(n)
	default:
		return 0, mismatch(KindScalar, x)
	}
}

func (e *Evaluator) scalarBinary(n *lang.Binary) (float64, error) {
	switch n.Op {
	case lang.TokPlus, lang.TokMinus, lang.TokStar, lang.TokSlash, lang.TokPercent:
	default:
		return 0, mismatch(KindScalar, n)
	}

	a, err := e.scalar(n.X)
	if err != nil {
		return 0, err
	}
	b, err := e.scalar(n.Y)
	if err != nil {
		return 0, err
	}

	switch n.Op {
	case lang.TokPlus:
		return a + b, nil
	case lang.TokMinus:
		return a - b, nil
	case lang.TokStar:
		return a * b, nil
	case lang.TokSlash:
		return a / b, nil
	default:
		return math.Mod(a, b), nil
	}
}

func (e *Evaluator) scalarCall(n *lang.Call) (float64, error) {
	if n.Name == "sample_rate" {
		if err := argc(n.Name, n.Args, 0, 0); err != nil {
			return 0, err
		}
		return e.ctx.SampleRate, nil
	}

	f, ok := mathFuncs[n.Name]
	if !ok {
		return 0, mismatch(KindScalar, n)
	}
	if err := argc(n.Name, n.Args, f.args, f.args); err != nil {
		return 0, err
	}
	args, err := e.scalars(n.Args)
	if err != nil {
		return 0, err
	}
	return f.fn(args), nil
}

//nolint:cyclop
func (e *Evaluator) scalarMethod(m *lang.MethodCall) (float64, error) {
	recv, err := e.receiver(m.Recv)
	if err != nil {
		return 0, err
	}

	noArgs := func(x float64) (float64, error) {
		if err := argc(m.Name, m.Args, 0, 0); err != nil {
			return 0, err
		}
		return x, nil
	}

	switch r := recv.(type) {
	case Array:
		switch m.Name {
		case "len":
			return noArgs(float64(len(r)))
		case "sum":
			var s float64
			for _, x := range r {
				s += x
			}
			return noArgs(s)
		}
	case Graph:
		switch m.Name {
		case "inputs":
			return noArgs(float64(r.G.Inputs()))
		case "outputs":
			return noArgs(float64(r.G.Outputs()))
		case "size":
			return noArgs(float64(r.G.Size()))
		}
	case Cell:
		if m.Name == "value" {
			return noArgs(r.C.Value())
		}
	case Wave:
		switch m.Name {
		case "channels":
			return noArgs(float64(r.W.Channels()))
		case "len":
			return noArgs(float64(r.W.Len()))
		case "duration":
			return noArgs(r.W.Duration())
		case "sample_rate":
			return noArgs(r.W.SampleRate())
		case "peak":
			return noArgs(r.W.Peak())
		case "at":
			if err := argc(m.Name, m.Args, 2, 2); err != nil {
				return 0, err
			}
			ch, err := e.index(m.Args[0], r.W.Channels())
			if err != nil {
				return 0, err
			}
			i, err := e.index(m.Args[1], r.W.Len())
			if err != nil {
				return 0, err
			}
			return r.W.At(ch, i), nil
		}
	case Sequencer:
		switch m.Name {
		case "outputs":
			return noArgs(float64(r.S.Outputs()))
		case "time":
			return noArgs(r.S.Time())
		case "len":
			return noArgs(float64(r.S.Len()))
		}
	case Source:
		if m.Name == "pitch_hz" {
			return noArgs(r.S.PitchHz())
		}
	}
	return 0, mismatch(KindScalar, m)
}

// boolean evaluates x in the bool domain.
func (e *Evaluator) boolean(x lang.Expr) (bool, error) {
	switch n := lang.Unparen(x).(type) {
	case *lang.BoolLit:
		return n.Value, nil
	case *lang.Ident:
		v, ok := e.env.Get(n.Name)
		if !ok {
			return false, unknown(n.Name)
		}
		if b, ok := v.(Bool); ok {
			return bool(b), nil
		}
		return false, mismatch(KindBool, n)
	case *lang.Unary:
		if n.Op != lang.TokNot {
			return false, mismatch(KindBool, n)
		}
		b, err := e.boolean(n.X)
		return !b, err
	case *lang.Binary:
		return e.boolBinary(n)
	case *lang.MethodCall:
		if n.Name != "has_backend" {
			return false, mismatch(KindBool, n)
		}
		recv, err := e.receiver(n.Recv)
		if err != nil {
			return false, err
		}
		g, ok := recv.(Graph)
		if !ok {
			return false, mismatch(KindBool, n)
		}
		if err := argc(n.Name, n.Args, 0, 0); err != nil {
			return false, err
		}
		return g.G.HasBackend(), nil
	default:
		return false, mismatch(KindBool, x)
	}
}

//nolint:cyclop
func (e *Evaluator) boolBinary(n *lang.Binary) (bool, error) {
	switch n.Op {
	case lang.TokAndAnd, lang.TokOrOr:
		a, err := e.boolean(n.X)
		if err != nil {
			return false, err
		}
		if (n.Op == lang.TokAndAnd) != a {
			return a, nil
		}
		return e.boolean(n.Y)
	case lang.TokLt, lang.TokLe, lang.TokGt, lang.TokGe:
		a, err := e.scalar(n.X)
		if err != nil {
			return false, err
		}
		b, err := e.scalar(n.Y)
		if err != nil {
			return false, err
		}
		switch n.Op {
		case lang.TokLt:
			return a < b, nil
		case lang.TokLe:
			return a <= b, nil
		case lang.TokGt:
			return a > b, nil
		default:
			return a >= b, nil
		}
	case lang.TokEq, lang.TokNeq:
		eq, err := e.equal(n.X, n.Y)
		if err != nil {
			return false, err
		}
		return eq == (n.Op == lang.TokEq), nil
	default:
		return false, mismatch(KindBool, n)
	}
}

// equal compares two operands of the same comparable kind.
func (e *Evaluator) equal(x, y lang.Expr) (bool, error) {
	a, err := e.resolve(x)
	if err != nil {
		return false, err
	}
	b, err := e.resolve(y)
	if err != nil {
		return false, err
	}
	if a.Kind() != b.Kind() {
		return false, fmt.Errorf("%w: cannot compare %s with %s", ErrKind, a.Kind(), b.Kind())
	}

	switch a := a.(type) {
	case Scalar:
		return a == b.(Scalar), nil
	case Bool:
		return a == b.(Bool), nil
	case String:
		return a == b.(String), nil
	case Node:
		return a == b.(Node), nil
	case Event:
		return a == b.(Event), nil
	case Array:
		bb := b.(Array)
		if len(a) != len(bb) {
			return false, nil
		}
		for i := range a {
			if a[i] != bb[i] {
				return false, nil
			}
		}
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s values are not comparable", ErrKind, a.Kind())
	}
}

// str evaluates x in the string domain.
func (e *Evaluator) str(x lang.Expr) (string, error) {
	switch n := lang.Unparen(x).(type) {
	case *lang.StringLit:
		return n.Value, nil
	case *lang.Ident:
		v, ok := e.env.Get(n.Name)
		if !ok {
			return "", unknown(n.Name)
		}
		if s, ok := v.(String); ok {
			return string(s), nil
		}
		return "", mismatch(KindString, n)
	case *lang.Binary:
		if n.Op != lang.TokPlus {
			return "", mismatch(KindString, n)
		}
		a, err := e.str(n.X)
		if err != nil {
			return "", err
		}
		b, err := e.str(n.Y)
		if err != nil {
			return "", err
		}
		return a + b, nil
	case *lang.Call:
		if n.Name != "str" && n.Name != "kind" {
			return "", mismatch(KindString, n)
		}
		if err := argc(n.Name, n.Args, 1, 1); err != nil {
			return "", err
		}
		v, err := e.resolve(n.Args[0])
		if err != nil {
			return "", err
		}
		if n.Name == "kind" {
			return v.Kind().String(), nil
		}
		if s, ok := v.(String); ok {
			return string(s), nil
		}
		return v.String(), nil
	default:
		return "", mismatch(KindString, x)
	}
}
