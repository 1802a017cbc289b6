package eval

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/ring"
	"github.com/cwbudde/algo-livecode/dsp/sequencer"
	"github.com/cwbudde/algo-livecode/dsp/slot"
	"github.com/cwbudde/algo-livecode/dsp/unit"
	"github.com/cwbudde/algo-livecode/internal/lang"
	"github.com/cwbudde/algo-livecode/internal/logging"
	"github.com/cwbudde/algo-livecode/internal/midi"
)

// MaxIterations bounds a single for loop.
const MaxIterations = 1 << 20

var (
	// ErrUnresolved reports an expression no domain accepts.
	ErrUnresolved = errors.New("eval: expression does not resolve")
	// ErrUnknownName reports a name with no binding.
	ErrUnknownName = errors.New("eval: unknown name")
	// ErrKind reports an assignment that would change a binding's kind.
	ErrKind = errors.New("eval: kind mismatch")
	// ErrIndex reports an out-of-range or non-integral index.
	ErrIndex = errors.New("eval: bad index")
	// ErrArgs reports wrong method or function arguments.
	ErrArgs = errors.New("eval: invalid arguments")
	// ErrNoSlot reports slot access without an audio output.
	ErrNoSlot = errors.New("eval: no audio output")
	// ErrFlow reports break or continue outside a loop.
	ErrFlow = errors.New("eval: break or continue outside a loop")
	// ErrPanic reports a failure inside a constructor or unit.
	ErrPanic = errors.New("eval: internal failure")

	// errMismatch marks an expression that belongs to another domain.
	errMismatch = errors.New("eval: other domain")
)

// Flow is the control-flow signal of a statement.
type Flow int

const (
	FlowNone Flow = iota
	FlowBreak
	FlowContinue
)

// Outcome is the result of one statement. Text is the transcript output,
// which also lists failures of statements nested in blocks and loops. Err
// is set when the statement itself had no effect.
type Outcome struct {
	Text string
	Err  error
	Flow Flow
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger. Rejected statements are logged at debug.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// WithRegistry replaces the constructor registry.
func WithRegistry(r *unit.Registry) Option {
	return func(e *Evaluator) { e.reg = r }
}

// WithSlot connects slot.set, slot.stop and g.play to an audio output.
func WithSlot(s *slot.Slot) Option {
	return func(e *Evaluator) {
		e.slot = s
		e.ctx.SampleRate = s.SampleRate()
	}
}

// WithSampleRate sets the rate for constructors, sequencers and render.
func WithSampleRate(sr float64) Option {
	return func(e *Evaluator) {
		if sr > 0 {
			e.ctx.SampleRate = sr
		}
	}
}

// WithInputs provides capture streams to input(ch).
func WithInputs(streams []*ring.Stream) Option {
	return func(e *Evaluator) { e.ctx.Inputs = streams }
}

// WithSeed seeds noise constructors.
func WithSeed(seed uint64) Option {
	return func(e *Evaluator) { e.ctx.Seed = seed }
}

// WithFade sets the transition used by g.play() and slot.stop().
func WithFade(shape fade.Shape, seconds float64) Option {
	return func(e *Evaluator) {
		e.fadeShape = shape
		e.fadeSeconds = seconds
	}
}

// WithQueue sets the message queue capacity of new sequencers.
func WithQueue(n int) Option {
	return func(e *Evaluator) { e.queue = n }
}

// Evaluator executes statements against one Environment. It is not safe
// for concurrent use.
type Evaluator struct {
	env *Environment
	reg *unit.Registry
	ctx unit.Context
	log *slog.Logger

	slot        *slot.Slot
	fadeShape   fade.Shape
	fadeSeconds float64
	queue       int

	sources []*midi.Source
}

// New returns an Evaluator with an empty environment.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		env:         NewEnvironment(),
		reg:         unit.DefaultRegistry(),
		ctx:         unit.Context{SampleRate: graph.DefaultSampleRate},
		log:         logging.NewNop(),
		fadeShape:   fade.Smooth,
		fadeSeconds: 0.1,
		queue:       sequencer.DefaultQueue,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Env returns the environment.
func (e *Evaluator) Env() *Environment { return e.env }

// Registry returns the constructor registry.
func (e *Evaluator) Registry() *unit.Registry { return e.reg }

// SampleRate returns the rate new units are built for.
func (e *Evaluator) SampleRate() float64 { return e.ctx.SampleRate }

// Eval executes one statement.
func (e *Evaluator) Eval(s lang.Stmt) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("%w: %v", ErrPanic, r)}
			e.log.Error("statement panicked", "stmt", lang.Sprint(s), "panic", r)
		}
	}()

	out = e.exec(s)
	if out.Flow != FlowNone {
		out.Flow = FlowNone
		out.Err = ErrFlow
	}
	if out.Err != nil {
		e.log.Debug("statement rejected", "stmt", lang.Sprint(s), "pos", s.Pos().String(), "error", out.Err)
	}
	return out
}

// Run parses src and executes its statements in order. A parse error
// executes nothing.
func (e *Evaluator) Run(src string) ([]Outcome, error) {
	prog, err := lang.Parse(src)
	if err != nil {
		return nil, err
	}

	outs := make([]Outcome, len(prog.Stmts))
	for i, s := range prog.Stmts {
		outs[i] = e.Eval(s)
	}
	return outs, nil
}

// SetNumber updates a scalar or cell binding, as sliders do.
func (e *Evaluator) SetNumber(name string, x float64) error {
	v, ok := e.env.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownName, name)
	}

	switch v := v.(type) {
	case Scalar:
		e.env.Set(name, Scalar(x))
	case Cell:
		v.C.Set(x)
	default:
		return fmt.Errorf("%w: %s is a %s", ErrKind, name, v.Kind())
	}
	return nil
}

// Close releases MIDI ports opened by scripts.
func (e *Evaluator) Close() error {
	var errs []error
	for _, s := range e.sources {
		errs = append(errs, s.Close())
	}
	e.sources = nil
	return errors.Join(errs...)
}

func (e *Evaluator) exec(s lang.Stmt) Outcome {
	switch s := s.(type) {
	case *lang.Let:
		v, err := e.resolve(s.Value)
		if err != nil {
			return Outcome{Err: err}
		}
		e.env.Set(s.Name, v)
		return Outcome{}
	case *lang.Assign:
		return e.assign(s)
	case *lang.IndexAssign:
		return e.indexAssign(s)
	case *lang.For:
		return e.forLoop(s)
	case *lang.If:
		return e.ifStmt(s)
	case *lang.Block:
		return e.block(s)
	case *lang.Break:
		return Outcome{Flow: FlowBreak}
	case *lang.Continue:
		return Outcome{Flow: FlowContinue}
	case *lang.ExprStmt:
		return e.exprStmt(s.X)
	default:
		return Outcome{Err: fmt.Errorf("%w: unsupported statement %T", ErrUnresolved, s)}
	}
}

func (e *Evaluator) assign(s *lang.Assign) Outcome {
	old, ok := e.env.Get(s.Name)
	if !ok {
		return Outcome{Err: fmt.Errorf("%w: %s", ErrUnknownName, s.Name)}
	}

	v, err := e.resolveAs(old.Kind(), s.Value)
	if err != nil {
		if errors.Is(err, errMismatch) {
			err = fmt.Errorf("%w: %s is a %s", ErrKind, s.Name, old.Kind())
		}
		return Outcome{Err: err}
	}

	e.env.Set(s.Name, v)
	return Outcome{}
}

func (e *Evaluator) indexAssign(s *lang.IndexAssign) Outcome {
	old, ok := e.env.Get(s.Name)
	if !ok {
		return Outcome{Err: fmt.Errorf("%w: %s", ErrUnknownName, s.Name)}
	}
	arr, ok := old.(Array)
	if !ok {
		return Outcome{Err: fmt.Errorf("%w: %s is a %s, not an array", ErrKind, s.Name, old.Kind())}
	}

	i, err := e.index(s.Index, len(arr))
	if err != nil {
		return Outcome{Err: err}
	}
	x, err := e.scalar(s.Value)
	if err != nil {
		return Outcome{Err: err}
	}

	arr[i] = x
	return Outcome{}
}

func (e *Evaluator) forLoop(s *lang.For) Outcome {
	next, n, err := e.iterable(s.Iter)
	if err != nil {
		return Outcome{Err: err}
	}

	prior, had := e.env.Get(s.Var)
	defer func() {
		if had {
			e.env.Set(s.Var, prior)
		} else {
			e.env.Delete(s.Var)
		}
	}()

	var text []string
	for i := range n {
		e.env.Set(s.Var, Scalar(next(i)))
		o := e.block(s.Body)
		if o.Text != "" {
			text = append(text, o.Text)
		}
		if o.Flow == FlowBreak {
			break
		}
	}
	return Outcome{Text: strings.Join(text, "\n")}
}

// iterable returns an element accessor and a count.
func (e *Evaluator) iterable(x lang.Expr) (func(int) float64, int, error) {
	if r, ok := lang.Unparen(x).(*lang.Range); ok {
		lo, err := e.integer(r.Lo)
		if err != nil {
			return nil, 0, err
		}
		hi, err := e.integer(r.Hi)
		if err != nil {
			return nil, 0, err
		}
		if r.Inclusive {
			hi++
		}

		n := max(hi-lo, 0)
		if n > MaxIterations {
			return nil, 0, fmt.Errorf("%w: range of %d iterations", ErrArgs, n)
		}
		return func(i int) float64 { return float64(lo + i) }, n, nil
	}

	arr, err := e.array(x)
	if err != nil {
		return nil, 0, err
	}
	return func(i int) float64 { return arr[i] }, len(arr), nil
}

func (e *Evaluator) ifStmt(s *lang.If) Outcome {
	cond, err := e.boolean(s.Cond)
	if err != nil {
		return Outcome{Err: err}
	}

	switch {
	case cond:
		return e.block(s.Then)
	case s.Else != nil:
		return e.exec(s.Else)
	default:
		return Outcome{}
	}
}

func (e *Evaluator) block(b *lang.Block) Outcome {
	var text []string
	for _, s := range b.Stmts {
		o := e.exec(s)
		if o.Text != "" {
			text = append(text, o.Text)
		}
		if o.Err != nil {
			text = append(text, "error: "+o.Err.Error())
			e.log.Debug("statement rejected", "stmt", lang.Sprint(s), "pos", s.Pos().String(), "error", o.Err)
		}
		if o.Flow != FlowNone {
			return Outcome{Text: strings.Join(text, "\n"), Flow: o.Flow}
		}
	}
	return Outcome{Text: strings.Join(text, "\n")}
}

func (e *Evaluator) exprStmt(x lang.Expr) Outcome {
	if m, ok := lang.Unparen(x).(*lang.MethodCall); ok {
		if text, handled, err := e.command(m); handled {
			return Outcome{Text: text, Err: err}
		}
	}

	v, err := e.resolve(x)
	if err != nil {
		return Outcome{Err: err}
	}
	return Outcome{Text: v.String()}
}
