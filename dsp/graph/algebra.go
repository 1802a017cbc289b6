package graph

import "fmt"

// The operators below never modify their operands: each operand is cloned
// into the result as a nested node.

// Series feeds the outputs of a into the inputs of b.
func Series(a, b Unit) (*Graph, error) {
	if a.Outputs() != b.Inputs() {
		return nil, arityError(">>", a, b)
	}

	g := newFrom(a.Inputs(), b.Outputs(), a, b)
	ha := g.insert(a.Clone())
	hb := g.insert(b.Clone())
	g.pipeIn(ha, 0)
	for i := range a.Outputs() {
		g.nodes[hb.index].in[i] = source{kind: sourceNode, node: ha.index, port: i}
	}
	g.pipeOut(hb, 0, 0, b.Outputs())
	g.last = hb
	g.compile()
	return g, nil
}

// Stack runs a and b side by side.
func Stack(a, b Unit) (*Graph, error) {
	g := newFrom(a.Inputs()+b.Inputs(), a.Outputs()+b.Outputs(), a, b)
	ha := g.insert(a.Clone())
	hb := g.insert(b.Clone())
	g.pipeIn(ha, 0)
	g.pipeIn(hb, a.Inputs())
	g.pipeOut(ha, 0, 0, a.Outputs())
	g.pipeOut(hb, 0, a.Outputs(), b.Outputs())
	g.compile()
	return g, nil
}

// Sum stacks the inputs of a and b and adds their outputs.
func Sum(a, b Unit) (*Graph, error) {
	return combine(a, b, OpAdd, "+", false)
}

// Difference stacks the inputs of a and b and subtracts b's outputs from a's.
func Difference(a, b Unit) (*Graph, error) {
	return combine(a, b, OpSub, "-", false)
}

// Product stacks the inputs of a and b and multiplies their outputs.
func Product(a, b Unit) (*Graph, error) {
	return combine(a, b, OpMul, "*", false)
}

// Bus feeds the same inputs to a and b and adds their outputs.
func Bus(a, b Unit) (*Graph, error) {
	if a.Inputs() != b.Inputs() {
		return nil, arityError("&", a, b)
	}
	return combine(a, b, OpAdd, "&", true)
}

// Branch feeds the same inputs to a and b and stacks their outputs.
func Branch(a, b Unit) (*Graph, error) {
	if a.Inputs() != b.Inputs() {
		return nil, arityError("^", a, b)
	}

	g := newFrom(a.Inputs(), a.Outputs()+b.Outputs(), a, b)
	ha := g.insert(a.Clone())
	hb := g.insert(b.Clone())
	g.pipeIn(ha, 0)
	g.pipeIn(hb, 0)
	g.pipeOut(ha, 0, 0, a.Outputs())
	g.pipeOut(hb, 0, a.Outputs(), b.Outputs())
	g.compile()
	return g, nil
}

// Thru returns a pass-through with a's arity mirrored: it reads as many
// inputs as a has outputs and writes as many outputs as a has inputs.
// Output i copies input i; outputs without a matching input are silent.
// a itself is not part of the result.
func Thru(a Unit) (*Graph, error) {
	g := newFrom(a.Outputs(), a.Inputs(), a)
	for i := range min(g.inputs, g.outputs) {
		g.outSrc[i] = source{kind: sourceInput, port: i}
	}
	g.compile()
	return g, nil
}

// FeedbackLoop wraps a in a one-sample feedback loop.
func FeedbackLoop(a Unit) (*Graph, error) {
	fb, err := NewFeedback(a.Clone())
	if err != nil {
		return nil, err
	}
	return Wrap(fb), nil
}

// ScalarAdd adds x to every output of a.
func ScalarAdd(a Unit, x float64) (*Graph, error) {
	return withScalar(a, x, OpAdd, false)
}

// ScalarSub subtracts x from every output of a.
func ScalarSub(a Unit, x float64) (*Graph, error) {
	return withScalar(a, x, OpSub, false)
}

// ScalarSubFrom computes x minus every output of a.
func ScalarSubFrom(x float64, a Unit) (*Graph, error) {
	return withScalar(a, x, OpSub, true)
}

// ScalarMul scales every output of a by x.
func ScalarMul(a Unit, x float64) (*Graph, error) {
	return withScalar(a, x, OpMul, false)
}

// Neg negates every output of a.
func Neg(a Unit) (*Graph, error) {
	return withScalar(a, -1, OpMul, false)
}

// combine wires a and b into a Binary node. shared feeds both from the same
// global inputs; otherwise their inputs are stacked.
func combine(a, b Unit, op Op, sym string, shared bool) (*Graph, error) {
	if a.Outputs() != b.Outputs() {
		return nil, arityError(sym, a, b)
	}

	n := a.Outputs()
	ins := a.Inputs() + b.Inputs()
	if shared {
		ins = a.Inputs()
	}

	g := newFrom(ins, n, a, b)
	ha := g.insert(a.Clone())
	hb := g.insert(b.Clone())
	hop := g.insert(NewBinary(op, n))

	g.pipeIn(ha, 0)
	if shared {
		g.pipeIn(hb, 0)
	} else {
		g.pipeIn(hb, a.Inputs())
	}

	in := g.nodes[hop.index].in
	for i := range n {
		in[i] = source{kind: sourceNode, node: ha.index, port: i}
		in[n+i] = source{kind: sourceNode, node: hb.index, port: i}
	}
	g.pipeOut(hop, 0, 0, n)
	g.last = hop
	g.compile()
	return g, nil
}

func withScalar(a Unit, x float64, op Op, scalarFirst bool) (*Graph, error) {
	n := a.Outputs()
	g := newFrom(a.Inputs(), n, a)
	ha := g.insert(a.Clone())
	hc := g.insert(Fill(x, n))
	hop := g.insert(NewBinary(op, n))
	g.pipeIn(ha, 0)

	left, right := ha.index, hc.index
	if scalarFirst {
		left, right = right, left
	}

	in := g.nodes[hop.index].in
	for i := range n {
		in[i] = source{kind: sourceNode, node: left, port: i}
		in[n+i] = source{kind: sourceNode, node: right, port: i}
	}
	g.pipeOut(hop, 0, 0, n)
	g.last = hop
	g.compile()
	return g, nil
}

// pipeIn feeds global inputs first.. into every input of h.
func (g *Graph) pipeIn(h NodeHandle, first int) {
	n := &g.nodes[h.index]
	for i := range n.in {
		n.in[i] = source{kind: sourceInput, port: first + i}
	}
}

// pipeOut binds count global outputs starting at out to outputs of h
// starting at port.
func (g *Graph) pipeOut(h NodeHandle, port, out, count int) {
	for i := range count {
		g.outSrc[out+i] = source{kind: sourceNode, node: h.index, port: port + i}
	}
}

func arityError(op string, a, b Unit) error {
	return fmt.Errorf("%w: (%d, %d) %s (%d, %d)", ErrArity, a.Inputs(), a.Outputs(), op, b.Inputs(), b.Outputs())
}
