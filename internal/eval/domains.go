package eval

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cwbudde/algo-livecode/dsp/buffer"
	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/sequencer"
	"github.com/cwbudde/algo-livecode/dsp/spectrum"
	"github.com/cwbudde/algo-livecode/dsp/unit"
	"github.com/cwbudde/algo-livecode/internal/lang"
	"github.com/cwbudde/algo-livecode/internal/midi"
	"github.com/cwbudde/algo-livecode/internal/wavfile"
)

// bindingOf returns the bound value of an identifier of kind k.
func (e *Evaluator) bindingOf(k Kind, x lang.Expr) (Value, bool, error) {
	id, ok := lang.Unparen(x).(*lang.Ident)
	if !ok {
		return nil, false, nil
	}
	v, ok := e.env.Get(id.Name)
	if !ok {
		return nil, true, unknown(id.Name)
	}
	if v.Kind() != k {
		return nil, true, mismatch(k, id)
	}
	return v, true, nil
}

// array evaluates x in the array domain.
func (e *Evaluator) array(x lang.Expr) ([]float64, error) {
	if v, ok, err := e.bindingOf(KindArray, x); ok {
		if err != nil {
			return nil, err
		}
		return append([]float64(nil), v.(Array)...), nil
	}

	switch n := lang.Unparen(x).(type) {
	case *lang.ArrayLit:
		return e.scalars(n.Elems)
	case *lang.Call:
		if n.Name != "linspace" {
			return nil, mismatch(KindArray, n)
		}
		if err := argc(n.Name, n.Args, 3, 3); err != nil {
			return nil, err
		}
		lo, err := e.scalar(n.Args[0])
		if err != nil {
			return nil, err
		}
		hi, err := e.scalar(n.Args[1])
		if err != nil {
			return nil, err
		}
		count, err := e.integer(n.Args[2])
		if err != nil {
			return nil, err
		}
		return linspace(lo, hi, count)
	case *lang.MethodCall:
		return e.arrayMethod(n)
	default:
		return nil, mismatch(KindArray, x)
	}
}

func linspace(lo, hi float64, n int) ([]float64, error) {
	if n < 0 || n > MaxIterations {
		return nil, fmt.Errorf("%w: linspace count %d", ErrArgs, n)
	}
	out := make([]float64, n)
	for i := range out {
		if n == 1 {
			out[i] = lo
			break
		}
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out, nil
}

func (e *Evaluator) arrayMethod(m *lang.MethodCall) ([]float64, error) {
	recv, err := e.receiver(m.Recv)
	if err != nil {
		return nil, err
	}
	w, ok := recv.(Wave)
	if !ok {
		return nil, mismatch(KindArray, m)
	}

	switch m.Name {
	case "channel":
		if err := argc(m.Name, m.Args, 1, 1); err != nil {
			return nil, err
		}
		ch, err := e.index(m.Args[0], w.W.Channels())
		if err != nil {
			return nil, err
		}
		return append([]float64(nil), w.W.Channel(ch)...), nil
	case "spectrum":
		if err := argc(m.Name, m.Args, 1, 2); err != nil {
			return nil, err
		}
		size, err := e.integer(m.Args[0])
		if err != nil {
			return nil, err
		}
		ch := 0
		if len(m.Args) == 2 {
			if ch, err = e.index(m.Args[1], w.W.Channels()); err != nil {
				return nil, err
			}
		}
		return spectrum.Analyze(w.W.Channel(ch), size)
	default:
		return nil, mismatch(KindArray, m)
	}
}

func (e *Evaluator) cell(x lang.Expr) (Value, error) {
	if v, ok, err := e.bindingOf(KindCell, x); ok {
		return v, err
	}

	n, ok := lang.Unparen(x).(*lang.Call)
	if !ok || n.Name != "shared" {
		return nil, mismatch(KindCell, x)
	}
	if err := argc(n.Name, n.Args, 1, 1); err != nil {
		return nil, err
	}
	v, err := e.scalar(n.Args[0])
	if err != nil {
		return nil, err
	}
	return Cell{C: unit.NewShared(v)}, nil
}

func (e *Evaluator) wave(x lang.Expr) (Value, error) {
	if v, ok, err := e.bindingOf(KindWave, x); ok {
		return v, err
	}

	n, ok := lang.Unparen(x).(*lang.Call)
	if !ok {
		return nil, mismatch(KindWave, x)
	}

	switch n.Name {
	case "wave_load":
		if err := argc(n.Name, n.Args, 1, 1); err != nil {
			return nil, err
		}
		path, err := e.str(n.Args[0])
		if err != nil {
			return nil, err
		}
		w, err := wavfile.Load(path)
		if err != nil {
			return nil, err
		}
		return Wave{W: w}, nil
	case "render":
		if err := argc(n.Name, n.Args, 2, 2); err != nil {
			return nil, err
		}
		g, err := e.graphOperand(n.Args[0])
		if err != nil {
			return nil, err
		}
		seconds, err := e.scalar(n.Args[1])
		if err != nil {
			return nil, err
		}
		w, err := graph.Render(g, e.ctx.SampleRate, seconds)
		if err != nil {
			return nil, err
		}
		return Wave{W: w}, nil
	case "wave":
		if err := argc(n.Name, n.Args, 2, 2); err != nil {
			return nil, err
		}
		ch, err := e.integer(n.Args[0])
		if err != nil {
			return nil, err
		}
		seconds, err := e.scalar(n.Args[1])
		if err != nil {
			return nil, err
		}
		w, err := buffer.New(ch, int(seconds*e.ctx.SampleRate), e.ctx.SampleRate)
		if err != nil {
			return nil, err
		}
		return Wave{W: w}, nil
	default:
		return nil, mismatch(KindWave, n)
	}
}

func (e *Evaluator) sequencer(x lang.Expr) (Value, error) {
	if v, ok, err := e.bindingOf(KindSequencer, x); ok {
		return v, err
	}

	n, ok := lang.Unparen(x).(*lang.Call)
	if !ok || n.Name != "sequencer" {
		return nil, mismatch(KindSequencer, x)
	}
	if err := argc(n.Name, n.Args, 2, 2); err != nil {
		return nil, err
	}
	replay, err := e.boolean(n.Args[0])
	if err != nil {
		return nil, err
	}
	outputs, err := e.integer(n.Args[1])
	if err != nil {
		return nil, err
	}

	s, err := sequencer.New(replay, outputs,
		sequencer.WithSampleRate(e.ctx.SampleRate),
		sequencer.WithQueue(e.queue),
	)
	if err != nil {
		return nil, err
	}
	return Sequencer{S: s}, nil
}

func (e *Evaluator) source(x lang.Expr) (Value, error) {
	if v, ok, err := e.bindingOf(KindSource, x); ok {
		return v, err
	}

	n, ok := lang.Unparen(x).(*lang.Call)
	if !ok {
		return nil, mismatch(KindSource, x)
	}

	switch n.Name {
	case "midi_source":
		if err := argc(n.Name, n.Args, 0, 1); err != nil {
			return nil, err
		}
		name := "virtual"
		if len(n.Args) == 1 {
			var err error
			if name, err = e.str(n.Args[0]); err != nil {
				return nil, err
			}
		}
		return Source{S: midi.NewVirtual(name, midi.WithLogger(e.log))}, nil
	case "midi_in":
		if err := argc(n.Name, n.Args, 1, 1); err != nil {
			return nil, err
		}
		port, err := e.portName(n.Args[0])
		if err != nil {
			return nil, err
		}
		s, err := midi.Open(port, midi.WithLogger(e.log))
		if err != nil {
			return nil, err
		}
		e.sources = append(e.sources, s)
		return Source{S: s}, nil
	default:
		return nil, mismatch(KindSource, n)
	}
}

// portName accepts a port name or a port index.
func (e *Evaluator) portName(x lang.Expr) (string, error) {
	s, err := e.str(x)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, errMismatch) {
		return "", err
	}
	i, err := e.integer(x)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(i), nil
}

type pushFunc func(a, b float64, shape fade.Shape, fadeIn, fadeOut float64, u graph.Unit) (sequencer.EventHandle, error)

// event evaluates x in the event domain: a bound handle, or one of the
// push methods on a bound sequencer.
func (e *Evaluator) event(x lang.Expr) (Value, error) {
	if v, ok, err := e.bindingOf(KindEvent, x); ok {
		return v, err
	}

	m, ok := lang.Unparen(x).(*lang.MethodCall)
	if !ok {
		return nil, mismatch(KindEvent, x)
	}
	var push func(s *sequencer.Sequencer) pushFunc
	switch m.Name {
	case "push":
		push = func(s *sequencer.Sequencer) pushFunc { return s.Push }
	case "push_relative":
		push = func(s *sequencer.Sequencer) pushFunc { return s.PushRelative }
	case "push_duration":
		push = func(s *sequencer.Sequencer) pushFunc { return s.PushDuration }
	default:
		return nil, mismatch(KindEvent, m)
	}

	v, err := e.target(m.Recv)
	if err != nil {
		return nil, err
	}
	seq, ok := v.(Sequencer)
	if !ok {
		return nil, mismatch(KindEvent, m)
	}
	if err := argc(m.Name, m.Args, 6, 6); err != nil {
		return nil, err
	}

	times, err := e.scalars(m.Args[:2])
	if err != nil {
		return nil, err
	}
	sh, err := e.shape(m.Args[2])
	if err != nil {
		return nil, err
	}
	fades, err := e.scalars(m.Args[3:5])
	if err != nil {
		return nil, err
	}
	u, err := e.unitArg(m.Args[5])
	if err != nil {
		return nil, err
	}

	h, err := push(seq.S)(times[0], times[1], sh, fades[0], fades[1], u)
	if err != nil {
		return nil, err
	}
	return Event(h), nil
}
