package graph

import (
	"fmt"

	"github.com/cwbudde/algo-livecode/dsp/fade"
)

type sourceKind uint8

const (
	sourceNone sourceKind = iota
	sourceInput
	sourceNode
)

// source is the single upstream binding of a sink port.
type source struct {
	kind sourceKind
	node int // arena index when kind == sourceNode
	port int // output port of node, or global input index
}

type node struct {
	unit    Unit
	gen     uint32
	live    bool
	inputs  int
	outputs int
	in      []source
	offset  int
}

// Graph is a mutable container of units wired port to port. It is itself a
// Unit with fixed global inputs and outputs. A Graph is not safe for
// concurrent use; a playing graph is edited through its Backend.
type Graph struct {
	inputs  int
	outputs int

	nodes  []node
	free   []int
	outSrc []source
	order  []int
	last   NodeHandle

	sampleRate float64

	values  []float64
	scratch []float64

	backend *Backend
	changes []change
}

// New returns an empty graph with the given global arity.
func New(inputs, outputs int) (*Graph, error) {
	if inputs < 0 || outputs < 0 {
		return nil, fmt.Errorf("%w: negative port count (%d, %d)", ErrArity, inputs, outputs)
	}

	return &Graph{
		inputs:     inputs,
		outputs:    outputs,
		outSrc:     make([]source, outputs),
		sampleRate: DefaultSampleRate,
	}, nil
}

// Wrap returns a graph holding u as its only node, piped to the global
// inputs and outputs. The graph runs at u's rate when u reports one.
func Wrap(u Unit) *Graph {
	g := newFrom(u.Inputs(), u.Outputs(), u)
	h := g.insert(u)
	for i := range g.inputs {
		g.nodes[h.index].in[i] = source{kind: sourceInput, port: i}
	}
	for i := range g.outputs {
		g.outSrc[i] = source{kind: sourceNode, node: h.index, port: i}
	}
	g.last = h
	g.compile()
	return g
}

// newFrom returns an empty graph at the rate of its operands.
func newFrom(inputs, outputs int, operands ...Unit) *Graph {
	g, _ := New(inputs, outputs)
	g.sampleRate = rateOf(operands...)
	return g
}

// Inputs returns the number of global inputs.
func (g *Graph) Inputs() int { return g.inputs }

// Outputs returns the number of global outputs.
func (g *Graph) Outputs() int { return g.outputs }

// Size returns the number of live nodes.
func (g *Graph) Size() int {
	n := 0
	for i := range g.nodes {
		if g.nodes[i].live {
			n++
		}
	}
	return n
}

// Handles returns the handles of all live nodes in arena order.
func (g *Graph) Handles() []NodeHandle {
	hs := make([]NodeHandle, 0, len(g.nodes))
	for i, n := range g.nodes {
		if n.live {
			hs = append(hs, NodeHandle{index: i, gen: n.gen})
		}
	}
	return hs
}

// Node returns the unit stored under h.
func (g *Graph) Node(h NodeHandle) (Unit, error) {
	if !g.valid(h) {
		return nil, ErrInvalidHandle
	}
	return g.nodes[h.index].unit, nil
}

// Contains reports whether h refers to a live node of g.
func (g *Graph) Contains(h NodeHandle) bool {
	return g.valid(h)
}

// Push appends u as an unconnected node.
func (g *Graph) Push(u Unit) (NodeHandle, error) {
	if u == nil {
		return NodeHandle{}, fmt.Errorf("%w: nil unit", ErrArity)
	}
	h := g.insert(u)
	g.compile()
	return h, nil
}

// Chain appends u and wires it in series after the most recently chained
// node. The first chained node is fed from the global inputs when the
// counts match. Global outputs are rebound to u when its outputs match.
func (g *Graph) Chain(u Unit) (NodeHandle, error) {
	if u == nil {
		return NodeHandle{}, fmt.Errorf("%w: nil unit", ErrArity)
	}

	prev := -1
	if g.valid(g.last) && u.Inputs() > 0 {
		prev = g.last.index
		if g.nodes[prev].outputs != u.Inputs() {
			return NodeHandle{}, fmt.Errorf("%w: chain %d outputs into %d inputs", ErrArity, g.nodes[prev].outputs, u.Inputs())
		}
	}

	h := g.insert(u)
	n := &g.nodes[h.index]

	switch {
	case prev >= 0:
		for i := range n.in {
			n.in[i] = source{kind: sourceNode, node: prev, port: i}
		}
	case n.inputs == g.inputs:
		for i := range n.in {
			n.in[i] = source{kind: sourceInput, port: i}
		}
	}

	if n.outputs == g.outputs {
		for i := range g.outSrc {
			g.outSrc[i] = source{kind: sourceNode, node: h.index, port: i}
		}
	}

	g.last = h
	g.compile()
	return h, nil
}

// Remove deletes the node. Sinks it fed become unconnected and read zero.
func (g *Graph) Remove(h NodeHandle) error {
	if !g.valid(h) {
		return ErrInvalidHandle
	}

	g.unlinkFrom(h.index)
	n := &g.nodes[h.index]
	n.unit = nil
	n.live = false
	n.in = nil
	g.free = append(g.free, h.index)
	if g.last == h {
		g.last = NodeHandle{}
	}
	g.compile()
	return nil
}

// RemoveLink severs every edge into and out of the node. The node stays.
func (g *Graph) RemoveLink(h NodeHandle) error {
	if !g.valid(h) {
		return ErrInvalidHandle
	}

	g.unlinkFrom(h.index)
	n := &g.nodes[h.index]
	for i := range n.in {
		n.in[i] = source{}
	}
	g.compile()
	return nil
}

// Replace swaps the node's unit instantly. The replacement must have the
// same arity. The switch is not smoothed.
func (g *Graph) Replace(h NodeHandle, u Unit) error {
	if err := g.checkSwap(h, u); err != nil {
		return err
	}

	u.SetSampleRate(g.sampleRate)
	g.nodes[h.index].unit = u
	g.markFresh(h.index)
	return nil
}

// Crossfade swaps the node's unit over seconds using shape. Both units run
// during the transition and the old one is dropped once it completes.
func (g *Graph) Crossfade(h NodeHandle, shape fade.Shape, seconds float64, u Unit) error {
	if err := g.checkSwap(h, u); err != nil {
		return err
	}
	if seconds < 0 {
		return fmt.Errorf("graph: negative crossfade time %g", seconds)
	}

	u.SetSampleRate(g.sampleRate)
	n := &g.nodes[h.index]

	if g.backend != nil {
		// The frontend is not ticked while a backend plays; the blend is
		// assembled on the audio side from its running unit.
		n.unit = u
		g.markBlend(h.index, shape, seconds)
		return nil
	}

	blend := NewBlend(n.unit, u, shape, seconds)
	blend.SetSampleRate(g.sampleRate)
	n.unit = blend
	return nil
}

// Connect wires output srcPort of src into input dstPort of dst, replacing
// any previous source of that input.
func (g *Graph) Connect(src NodeHandle, srcPort int, dst NodeHandle, dstPort int) error {
	if !g.valid(src) || !g.valid(dst) {
		return ErrInvalidHandle
	}
	if srcPort < 0 || srcPort >= g.nodes[src.index].outputs || dstPort < 0 || dstPort >= g.nodes[dst.index].inputs {
		return ErrPort
	}
	if src.index == dst.index || g.reaches(dst.index, src.index) {
		return ErrCycle
	}

	g.nodes[dst.index].in[dstPort] = source{kind: sourceNode, node: src.index, port: srcPort}
	g.compile()
	return nil
}

// Disconnect unbinds input port of node h.
func (g *Graph) Disconnect(h NodeHandle, port int) error {
	if !g.valid(h) {
		return ErrInvalidHandle
	}
	if port < 0 || port >= g.nodes[h.index].inputs {
		return ErrPort
	}

	g.nodes[h.index].in[port] = source{}
	g.compile()
	return nil
}

// DisconnectOutput unbinds global output out.
func (g *Graph) DisconnectOutput(out int) error {
	if out < 0 || out >= g.outputs {
		return ErrPort
	}
	g.outSrc[out] = source{}
	return nil
}

// ConnectInput feeds global input in into input port of dst.
func (g *Graph) ConnectInput(in int, dst NodeHandle, port int) error {
	if !g.valid(dst) {
		return ErrInvalidHandle
	}
	if in < 0 || in >= g.inputs || port < 0 || port >= g.nodes[dst.index].inputs {
		return ErrPort
	}

	g.nodes[dst.index].in[port] = source{kind: sourceInput, port: in}
	return nil
}

// PipeInput feeds every global input into the input of the same index of dst.
func (g *Graph) PipeInput(dst NodeHandle) error {
	if !g.valid(dst) {
		return ErrInvalidHandle
	}
	n := &g.nodes[dst.index]
	if n.inputs != g.inputs {
		return fmt.Errorf("%w: graph has %d inputs, node has %d", ErrArity, g.inputs, n.inputs)
	}

	for i := range n.in {
		n.in[i] = source{kind: sourceInput, port: i}
	}
	return nil
}

// ConnectOutput binds global output out to output port of src.
func (g *Graph) ConnectOutput(src NodeHandle, port, out int) error {
	if !g.valid(src) {
		return ErrInvalidHandle
	}
	if out < 0 || out >= g.outputs || port < 0 || port >= g.nodes[src.index].outputs {
		return ErrPort
	}

	g.outSrc[out] = source{kind: sourceNode, node: src.index, port: port}
	return nil
}

// PipeOutput binds every global output to the output of the same index of src.
func (g *Graph) PipeOutput(src NodeHandle) error {
	if !g.valid(src) {
		return ErrInvalidHandle
	}
	if g.nodes[src.index].outputs != g.outputs {
		return fmt.Errorf("%w: graph has %d outputs, node has %d", ErrArity, g.outputs, g.nodes[src.index].outputs)
	}

	for i := range g.outSrc {
		g.outSrc[i] = source{kind: sourceNode, node: src.index, port: i}
	}
	return nil
}

// PassThrough binds global output out directly to global input in.
func (g *Graph) PassThrough(in, out int) error {
	if in < 0 || in >= g.inputs || out < 0 || out >= g.outputs {
		return ErrPort
	}
	g.outSrc[out] = source{kind: sourceInput, port: in}
	return nil
}

// Tick evaluates one frame.
func (g *Graph) Tick(in, out []float64) {
	for _, idx := range g.order {
		n := &g.nodes[idx]
		args := g.scratch[:n.inputs]
		for i, s := range n.in {
			args[i] = g.read(s, in)
		}
		n.unit.Tick(args, g.values[n.offset:n.offset+n.outputs])
	}

	for i, s := range g.outSrc {
		out[i] = g.read(s, in)
	}
}

// Reset clears the state of every node.
func (g *Graph) Reset() {
	for _, idx := range g.order {
		g.nodes[idx].unit.Reset()
	}
	clear(g.values)
}

// SetSampleRate propagates the sample rate to every node.
func (g *Graph) SetSampleRate(sampleRate float64) {
	if sampleRate <= 0 {
		return
	}
	g.sampleRate = sampleRate
	for i := range g.nodes {
		if g.nodes[i].live {
			g.nodes[i].unit.SetSampleRate(sampleRate)
		}
	}
}

// SampleRate returns the rate last set on the graph.
func (g *Graph) SampleRate() float64 {
	return g.sampleRate
}

// Clone returns a detached deep copy. Live backends inside the graph are
// shared, and the copy itself has no backend.
func (g *Graph) Clone() Unit {
	return g.CloneGraph()
}

// CloneGraph is Clone with the concrete type.
func (g *Graph) CloneGraph() *Graph {
	c := &Graph{
		inputs:     g.inputs,
		outputs:    g.outputs,
		nodes:      make([]node, len(g.nodes)),
		free:       append([]int(nil), g.free...),
		outSrc:     append([]source(nil), g.outSrc...),
		last:       g.last,
		sampleRate: g.sampleRate,
	}

	for i, n := range g.nodes {
		cn := n
		cn.in = append([]source(nil), n.in...)
		if n.live {
			cn.unit = n.unit.Clone()
		}
		c.nodes[i] = cn
	}

	c.compile()
	return c
}

// String renders the graph for transcripts.
func (g *Graph) String() string {
	return fmt.Sprintf("graph(in=%d, out=%d, nodes=%d)", g.inputs, g.outputs, g.Size())
}

// IsLive reports whether any node is a live backend.
func (g *Graph) IsLive() bool {
	for i := range g.nodes {
		if g.nodes[i].live && IsLive(g.nodes[i].unit) {
			return true
		}
	}
	return false
}

func (g *Graph) read(s source, in []float64) float64 {
	switch s.kind {
	case sourceInput:
		return in[s.port]
	case sourceNode:
		return g.values[g.nodes[s.node].offset+s.port]
	default:
		return 0
	}
}

func (g *Graph) valid(h NodeHandle) bool {
	return h.gen != 0 && h.index >= 0 && h.index < len(g.nodes) &&
		g.nodes[h.index].live && g.nodes[h.index].gen == h.gen
}

func (g *Graph) checkSwap(h NodeHandle, u Unit) error {
	if !g.valid(h) {
		return ErrInvalidHandle
	}
	if u == nil {
		return fmt.Errorf("%w: nil unit", ErrArity)
	}
	n := g.nodes[h.index]
	if u.Inputs() != n.inputs || u.Outputs() != n.outputs {
		return fmt.Errorf("%w: node is (%d, %d), replacement is (%d, %d)", ErrArity, n.inputs, n.outputs, u.Inputs(), u.Outputs())
	}
	return nil
}

// insert places u in a free arena slot without compiling.
func (g *Graph) insert(u Unit) NodeHandle {
	u.SetSampleRate(g.sampleRate)

	n := node{
		unit:    u,
		live:    true,
		inputs:  u.Inputs(),
		outputs: u.Outputs(),
		in:      make([]source, u.Inputs()),
	}

	var idx int
	if k := len(g.free); k > 0 {
		idx = g.free[k-1]
		g.free = g.free[:k-1]
		n.gen = g.nodes[idx].gen + 1
		g.nodes[idx] = n
	} else {
		idx = len(g.nodes)
		n.gen = 1
		g.nodes = append(g.nodes, n)
	}

	g.markFresh(idx)
	return NodeHandle{index: idx, gen: n.gen}
}

// unlinkFrom clears every sink fed by node idx.
func (g *Graph) unlinkFrom(idx int) {
	for i := range g.nodes {
		if !g.nodes[i].live {
			continue
		}
		for p, s := range g.nodes[i].in {
			if s.kind == sourceNode && s.node == idx {
				g.nodes[i].in[p] = source{}
			}
		}
	}
	for o, s := range g.outSrc {
		if s.kind == sourceNode && s.node == idx {
			g.outSrc[o] = source{}
		}
	}
}

// reaches reports whether to is downstream of from.
func (g *Graph) reaches(from, to int) bool {
	seen := make([]bool, len(g.nodes))
	stack := []int{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == to {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for i := range g.nodes {
			if !g.nodes[i].live || seen[i] {
				continue
			}
			for _, s := range g.nodes[i].in {
				if s.kind == sourceNode && s.node == cur {
					stack = append(stack, i)
					break
				}
			}
		}
	}
	return false
}

// compile recomputes the evaluation order (Kahn's algorithm) and the
// buffers Tick uses. Edges are only ever added through acyclic checks, so
// every live node appears in the order.
func (g *Graph) compile() {
	indegree := make([]int, len(g.nodes))
	downstream := make([][]int, len(g.nodes))
	total, widest := 0, 0

	for i := range g.nodes {
		n := &g.nodes[i]
		if !n.live {
			continue
		}
		n.offset = total
		total += n.outputs
		widest = max(widest, n.inputs)
		for _, s := range n.in {
			if s.kind == sourceNode {
				indegree[i]++
				downstream[s.node] = append(downstream[s.node], i)
			}
		}
	}

	queue := make([]int, 0, len(g.nodes))
	for i := range g.nodes {
		if g.nodes[i].live && indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, len(g.nodes))
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		order = append(order, idx)
		for _, next := range downstream[idx] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	g.order = order
	g.values = make([]float64, total)
	g.scratch = make([]float64, widest)
}
