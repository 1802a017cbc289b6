package eval

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/unit"
	"github.com/cwbudde/algo-livecode/internal/lang"
)

// graphOf evaluates x in the graph domain. Bound graphs are cloned, so
// operators never share state with their operands.
func (e *Evaluator) graphOf(x lang.Expr) (*graph.Graph, error) {
	switch n := lang.Unparen(x).(type) {
	case *lang.Ident:
		v, ok := e.env.Get(n.Name)
		if !ok {
			return nil, unknown(n.Name)
		}
		g, ok := v.(Graph)
		if !ok {
			return nil, mismatch(KindGraph, n)
		}
		return g.G.CloneGraph(), nil
	case *lang.Unary:
		g, err := e.graphOf(n.X)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case lang.TokMinus:
			return graph.Neg(g)
		case lang.TokNot:
			return graph.Thru(g)
		default:
			return nil, mismatch(KindGraph, n)
		}
	case *lang.Binary:
		return e.graphBinary(n)
	case *lang.Call:
		return e.graphCall(n)
	case *lang.MethodCall:
		return e.graphMethod(n)
	default:
		return nil, mismatch(KindGraph, x)
	}
}

//nolint:cyclop
func (e *Evaluator) graphBinary(n *lang.Binary) (*graph.Graph, error) {
	switch n.Op {
	case lang.TokShr, lang.TokOr, lang.TokAnd, lang.TokCaret:
		a, err := e.graphOperand(n.X)
		if err != nil {
			return nil, err
		}
		b, err := e.graphOperand(n.Y)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case lang.TokShr:
			return graph.Series(a, b)
		case lang.TokOr:
			return graph.Stack(a, b)
		case lang.TokAnd:
			return graph.Bus(a, b)
		default:
			return graph.Branch(a, b)
		}
	case lang.TokPlus, lang.TokMinus, lang.TokStar, lang.TokSlash:
	default:
		return nil, mismatch(KindGraph, n)
	}

	a, errA := e.graphOf(n.X)
	b, errB := e.graphOf(n.Y)
	switch {
	case errA == nil && errB == nil:
		switch n.Op {
		case lang.TokPlus:
			return graph.Sum(a, b)
		case lang.TokMinus:
			return graph.Difference(a, b)
		case lang.TokStar:
			return graph.Product(a, b)
		default:
			return nil, fmt.Errorf("%w: graphs cannot be divided", ErrArgs)
		}
	case errA == nil:
		if !errors.Is(errB, errMismatch) && !errors.Is(errB, ErrUnknownName) {
			return nil, errB
		}
		k, err := e.scalar(n.Y)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case lang.TokPlus:
			return graph.ScalarAdd(a, k)
		case lang.TokMinus:
			return graph.ScalarSub(a, k)
		case lang.TokStar:
			return graph.ScalarMul(a, k)
		default:
			return graph.ScalarMul(a, 1/k)
		}
	case errB == nil:
		if !errors.Is(errA, errMismatch) && !errors.Is(errA, ErrUnknownName) {
			return nil, errA
		}
		k, err := e.scalar(n.X)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case lang.TokPlus:
			return graph.ScalarAdd(b, k)
		case lang.TokMinus:
			return graph.ScalarSubFrom(k, b)
		case lang.TokStar:
			return graph.ScalarMul(b, k)
		default:
			return nil, fmt.Errorf("%w: cannot divide by a graph", ErrArgs)
		}
	case !errors.Is(errA, errMismatch):
		return nil, errA
	default:
		return nil, errB
	}
}

// graphOperand lifts scalars to constants for the composition operators.
func (e *Evaluator) graphOperand(x lang.Expr) (*graph.Graph, error) {
	g, err := e.graphOf(x)
	if err == nil || !errors.Is(err, errMismatch) {
		return g, err
	}
	k, kerr := e.scalar(x)
	if kerr != nil {
		if errors.Is(kerr, errMismatch) {
			return nil, err
		}
		return nil, kerr
	}
	return graph.Wrap(graph.NewConstant(k)), nil
}

func (e *Evaluator) graphCall(n *lang.Call) (*graph.Graph, error) {
	switch n.Name {
	case "feedback":
		if err := argc(n.Name, n.Args, 1, 1); err != nil {
			return nil, err
		}
		g, err := e.graphOf(n.Args[0])
		if err != nil {
			return nil, err
		}
		return graph.FeedbackLoop(g)
	case "graph":
		if err := argc(n.Name, n.Args, 2, 2); err != nil {
			return nil, err
		}
		ins, err := e.integer(n.Args[0])
		if err != nil {
			return nil, err
		}
		outs, err := e.integer(n.Args[1])
		if err != nil {
			return nil, err
		}
		g, err := graph.New(ins, outs)
		if err != nil {
			return nil, err
		}
		g.SetSampleRate(e.ctx.SampleRate)
		return g, nil
	case "var":
		if err := argc(n.Name, n.Args, 1, 1); err != nil {
			return nil, err
		}
		c, err := e.cell(n.Args[0])
		if err != nil {
			return nil, err
		}
		return graph.Wrap(unit.NewVar(c.(Cell).C)), nil
	}

	if _, ok := e.reg.Lookup(n.Name); !ok {
		return nil, mismatch(KindGraph, n)
	}
	args, err := e.scalars(n.Args)
	if err != nil {
		return nil, err
	}
	u, err := e.reg.Build(e.ctx, n.Name, args)
	if err != nil {
		return nil, err
	}
	return e.wrap(u), nil
}

func (e *Evaluator) wrap(u graph.Unit) *graph.Graph {
	g := graph.Wrap(u)
	g.SetSampleRate(e.ctx.SampleRate)
	return g
}

//nolint:cyclop
func (e *Evaluator) graphMethod(m *lang.MethodCall) (*graph.Graph, error) {
	if m.Name == "backend" {
		return e.backendOf(m)
	}

	recv, err := e.receiver(m.Recv)
	if err != nil {
		return nil, err
	}

	switch r := recv.(type) {
	case Graph:
		if m.Name == "clone" {
			if err := argc(m.Name, m.Args, 0, 0); err != nil {
				return nil, err
			}
			return r.G.CloneGraph(), nil
		}
	case Wave:
		if m.Name == "player" {
			if err := argc(m.Name, m.Args, 0, 1); err != nil {
				return nil, err
			}
			loop := false
			if len(m.Args) == 1 {
				if loop, err = e.boolean(m.Args[0]); err != nil {
					return nil, err
				}
			}
			return e.wrap(unit.NewPlayer(r.W, loop)), nil
		}
	case Source:
		switch m.Name {
		case "pitch", "gate", "velocity":
			if err := argc(m.Name, m.Args, 0, 0); err != nil {
				return nil, err
			}
			switch m.Name {
			case "pitch":
				return graph.Wrap(r.S.Pitch()), nil
			case "gate":
				return graph.Wrap(r.S.Gate()), nil
			default:
				return graph.Wrap(r.S.Velocity()), nil
			}
		case "cc":
			if err := argc(m.Name, m.Args, 1, 1); err != nil {
				return nil, err
			}
			n, err := e.integer(m.Args[0])
			if err != nil {
				return nil, err
			}
			u, err := r.S.CC(n)
			if err != nil {
				return nil, err
			}
			return graph.Wrap(u), nil
		}
	}
	return nil, mismatch(KindGraph, m)
}

// backendOf attaches or returns the live backend of a bound graph or
// sequencer.
func (e *Evaluator) backendOf(m *lang.MethodCall) (*graph.Graph, error) {
	if err := argc(m.Name, m.Args, 0, 0); err != nil {
		return nil, err
	}
	v, err := e.target(m.Recv)
	if err != nil {
		if errors.Is(err, ErrArgs) {
			return nil, mismatch(KindGraph, m)
		}
		return nil, err
	}

	switch v := v.(type) {
	case Graph:
		b, err := v.G.Backend()
		if err != nil {
			return nil, err
		}
		return graph.Wrap(b), nil
	case Sequencer:
		return graph.Wrap(v.S.Backend()), nil
	default:
		return nil, mismatch(KindGraph, m)
	}
}

// node evaluates x in the node domain: a bound handle, or g.push(u) and
// g.chain(u) on a bound graph.
func (e *Evaluator) node(x lang.Expr) (graph.NodeHandle, error) {
	switch n := lang.Unparen(x).(type) {
	case *lang.Ident:
		v, ok := e.env.Get(n.Name)
		if !ok {
			return graph.NodeHandle{}, unknown(n.Name)
		}
		h, ok := v.(Node)
		if !ok {
			return graph.NodeHandle{}, mismatch(KindNode, n)
		}
		return graph.NodeHandle(h), nil
	case *lang.MethodCall:
		if n.Name != "push" && n.Name != "chain" {
			return graph.NodeHandle{}, mismatch(KindNode, n)
		}
		v, err := e.target(n.Recv)
		if err != nil {
			return graph.NodeHandle{}, err
		}
		g, ok := v.(Graph)
		if !ok {
			return graph.NodeHandle{}, mismatch(KindNode, n)
		}
		if err := argc(n.Name, n.Args, 1, 1); err != nil {
			return graph.NodeHandle{}, err
		}
		u, err := e.unitArg(n.Args[0])
		if err != nil {
			return graph.NodeHandle{}, err
		}
		if n.Name == "push" {
			return g.G.Push(u)
		}
		return g.G.Chain(u)
	default:
		return graph.NodeHandle{}, mismatch(KindNode, x)
	}
}

// unitArg evaluates a graph argument, lifting scalars to constants.
func (e *Evaluator) unitArg(x lang.Expr) (graph.Unit, error) {
	g, err := e.graphOperand(x)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// handle evaluates a node handle argument.
func (e *Evaluator) handle(x lang.Expr) (graph.NodeHandle, error) {
	h, err := e.node(x)
	if errors.Is(err, errMismatch) {
		return h, fmt.Errorf("%w: %s is not a node", ErrArgs, lang.Sprint(x))
	}
	return h, err
}
