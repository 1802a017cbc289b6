package eval

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/internal/lang"
)

// mutating names methods whose result must not be used as a receiver,
// since a receiver may be evaluated once per domain.
var mutating = map[string]bool{
	"push": true, "chain": true, "push_relative": true, "push_duration": true,
	"backend": true,
}

// resolve evaluates x in the first domain that accepts it.
func (e *Evaluator) resolve(x lang.Expr) (Value, error) {
	x = lang.Unparen(x)
	if id, ok := x.(*lang.Ident); ok {
		if v, ok := e.env.Get(id.Name); ok {
			return copyOut(v), nil
		}
	}

	var first error
	for _, k := range ResolutionOrder() {
		v, err := e.resolveAs(k, x)
		if err == nil {
			return v, nil
		}
		if first == nil && !errors.Is(err, errMismatch) {
			first = err
		}
	}
	if first != nil {
		return nil, first
	}
	return nil, fmt.Errorf("%w: %s", ErrUnresolved, lang.Sprint(x))
}

// resolveAs evaluates x in one domain.
func (e *Evaluator) resolveAs(k Kind, x lang.Expr) (Value, error) {
	switch k {
	case KindScalar:
		v, err := e.scalar(x)
		return wrapOK(Scalar(v), err)
	case KindGraph:
		g, err := e.graphOf(x)
		return wrapOK(Graph{G: g}, err)
	case KindArray:
		a, err := e.array(x)
		return wrapOK(Array(a), err)
	case KindNode:
		h, err := e.node(x)
		return wrapOK(Node(h), err)
	case KindBool:
		b, err := e.boolean(x)
		return wrapOK(Bool(b), err)
	case KindCell:
		return e.cell(x)
	case KindWave:
		return e.wave(x)
	case KindSequencer:
		return e.sequencer(x)
	case KindSource:
		return e.source(x)
	case KindEvent:
		return e.event(x)
	case KindString:
		s, err := e.str(x)
		return wrapOK(String(s), err)
	default:
		return nil, fmt.Errorf("%w: kind %s", ErrUnresolved, k)
	}
}

func wrapOK(v Value, err error) (Value, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

// copyOut gives reads of graphs and arrays value semantics.
func copyOut(v Value) Value {
	switch v := v.(type) {
	case Graph:
		return Graph{G: v.G.CloneGraph()}
	case Array:
		return Array(append([]float64(nil), v...))
	default:
		return v
	}
}

func mismatch(k Kind, x lang.Expr) error {
	return fmt.Errorf("%w: %s is not a %s", errMismatch, lang.Sprint(x), k)
}

func unknown(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownName, name)
}

// bound looks up an identifier without copying. It reports whether x is
// an identifier at all.
func (e *Evaluator) bound(x lang.Expr) (Value, bool, error) {
	id, ok := lang.Unparen(x).(*lang.Ident)
	if !ok {
		return nil, false, nil
	}
	v, ok := e.env.Get(id.Name)
	if !ok {
		return nil, true, unknown(id.Name)
	}
	return v, true, nil
}

// target returns the binding a mutating method operates on.
func (e *Evaluator) target(x lang.Expr) (Value, error) {
	v, isIdent, err := e.bound(x)
	if err != nil {
		return nil, err
	}
	if !isIdent {
		return nil, fmt.Errorf("%w: receiver %s must be a variable", ErrArgs, lang.Sprint(x))
	}
	return v, nil
}

// receiver evaluates a method receiver. Bound names are not copied.
func (e *Evaluator) receiver(x lang.Expr) (Value, error) {
	v, isIdent, err := e.bound(x)
	if isIdent {
		return v, err
	}
	if m, ok := lang.Unparen(x).(*lang.MethodCall); ok && mutating[m.Name] {
		return nil, fmt.Errorf("%w: cannot call methods on the result of %s", ErrArgs, m.Name)
	}
	return e.resolve(x)
}

func argc(name string, args []lang.Expr, lo, hi int) error {
	if n := len(args); n < lo || n > hi {
		if lo == hi {
			return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArgs, name, lo, n)
		}
		return fmt.Errorf("%w: %s takes %d to %d arguments, got %d", ErrArgs, name, lo, hi, n)
	}
	return nil
}

func (e *Evaluator) scalars(args []lang.Expr) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		x, err := e.scalar(a)
		if err != nil {
			return nil, err
		}
		out[i] = x
	}
	return out, nil
}

// integer evaluates an integral scalar.
func (e *Evaluator) integer(x lang.Expr) (int, error) {
	f, err := e.scalar(x)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrIndex, formatNumber(f))
	}
	return int(f), nil
}

func (e *Evaluator) index(x lang.Expr, n int) (int, error) {
	i, err := e.integer(x)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d not in [0, %d)", ErrIndex, i, n)
	}
	return i, nil
}

// shape evaluates a fade argument: Fade::Smooth, Smooth, or a string.
func (e *Evaluator) shape(x lang.Expr) (fade.Shape, error) {
	var name string
	switch n := lang.Unparen(x).(type) {
	case *lang.Path:
		if len(n.Parts) != 2 || n.Parts[0] != "Fade" {
			return fade.Smooth, fmt.Errorf("%w: unknown fade %s", ErrArgs, lang.Sprint(n))
		}
		name = n.Parts[1]
	case *lang.Ident:
		if v, ok := e.env.Get(n.Name); ok {
			s, ok := v.(String)
			if !ok {
				return fade.Smooth, fmt.Errorf("%w: %s is not a fade", ErrArgs, n.Name)
			}
			name = string(s)
		} else {
			name = n.Name
		}
	case *lang.StringLit:
		name = n.Value
	default:
		return fade.Smooth, fmt.Errorf("%w: %s is not a fade", ErrArgs, lang.Sprint(x))
	}

	s, ok := fade.Parse(name)
	if !ok {
		return fade.Smooth, fmt.Errorf("%w: unknown fade %q", ErrArgs, name)
	}
	return s, nil
}
