package eval

import (
	"fmt"

	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/sequencer"
	"github.com/cwbudde/algo-livecode/internal/lang"
	"github.com/cwbudde/algo-livecode/internal/wavfile"
)

// command runs a mutating method used as a bare statement. It reports
// whether m named a command for its receiver.
func (e *Evaluator) command(m *lang.MethodCall) (string, bool, error) {
	if id, ok := lang.Unparen(m.Recv).(*lang.Ident); ok && id.Name == "slot" {
		if _, bound := e.env.Get("slot"); !bound {
			return "", true, e.slotCommand(m)
		}
	}

	v, isIdent, err := e.bound(m.Recv)
	if !isIdent || err != nil {
		return "", false, nil
	}

	switch v := v.(type) {
	case Graph:
		return e.graphCommand(v.G, m)
	case Sequencer:
		return e.sequencerCommand(v, m)
	case Cell:
		if m.Name != "set" {
			return "", false, nil
		}
		if err := argc(m.Name, m.Args, 1, 1); err != nil {
			return "", true, err
		}
		x, err := e.scalar(m.Args[0])
		if err == nil {
			v.C.Set(x)
		}
		return "", true, err
	case Array:
		if m.Name != "push" {
			return "", false, nil
		}
		if err := argc(m.Name, m.Args, 1, 1); err != nil {
			return "", true, err
		}
		x, err := e.scalar(m.Args[0])
		if err == nil {
			e.env.Set(lang.Unparen(m.Recv).(*lang.Ident).Name, append(v, x))
		}
		return "", true, err
	case Wave:
		if m.Name != "save" {
			return "", false, nil
		}
		if err := argc(m.Name, m.Args, 1, 1); err != nil {
			return "", true, err
		}
		path, err := e.str(m.Args[0])
		if err != nil {
			return "", true, err
		}
		return "", true, wavfile.Save(path, v.W)
	case Source:
		return e.sourceCommand(v, m)
	default:
		return "", false, nil
	}
}

func (e *Evaluator) slotCommand(m *lang.MethodCall) error {
	if e.slot == nil {
		return ErrNoSlot
	}

	switch m.Name {
	case "set":
		if err := argc(m.Name, m.Args, 3, 3); err != nil {
			return err
		}
		sh, err := e.shape(m.Args[0])
		if err != nil {
			return err
		}
		seconds, err := e.scalar(m.Args[1])
		if err != nil {
			return err
		}
		u, err := e.unitArg(m.Args[2])
		if err != nil {
			return err
		}
		return e.slot.Set(sh, seconds, u)
	case "stop":
		if err := argc(m.Name, m.Args, 0, 1); err != nil {
			return err
		}
		seconds := e.fadeSeconds
		if len(m.Args) == 1 {
			var err error
			if seconds, err = e.scalar(m.Args[0]); err != nil {
				return err
			}
		}
		return e.slot.Stop(seconds)
	default:
		return fmt.Errorf("%w: slot has no method %s", ErrArgs, m.Name)
	}
}

//nolint:cyclop,funlen
func (e *Evaluator) graphCommand(g *graph.Graph, m *lang.MethodCall) (string, bool, error) {
	// Arity of each command, checked before any argument is evaluated.
	arity := map[string]int{
		"remove": 1, "remove_link": 1, "replace": 2, "crossfade": 4,
		"connect": 4, "disconnect": 2, "disconnect_output": 1,
		"connect_input": 3, "pipe_input": 1, "connect_output": 3,
		"pipe_output": 1, "pass_through": 2, "commit": 0, "play": 0,
	}
	n, ok := arity[m.Name]
	if !ok {
		return "", false, nil
	}
	if m.Name == "play" {
		if err := argc(m.Name, m.Args, 0, 2); err != nil {
			return "", true, err
		}
	} else if err := argc(m.Name, m.Args, n, n); err != nil {
		return "", true, err
	}

	a := m.Args
	var err error
	switch m.Name {
	case "remove", "remove_link", "pipe_input", "pipe_output":
		var h graph.NodeHandle
		if h, err = e.handle(a[0]); err != nil {
			break
		}
		switch m.Name {
		case "remove":
			err = g.Remove(h)
		case "remove_link":
			err = g.RemoveLink(h)
		case "pipe_input":
			err = g.PipeInput(h)
		default:
			err = g.PipeOutput(h)
		}
	case "replace":
		h, herr := e.handle(a[0])
		if herr != nil {
			return "", true, herr
		}
		u, uerr := e.unitArg(a[1])
		if uerr != nil {
			return "", true, uerr
		}
		err = g.Replace(h, u)
	case "crossfade":
		h, herr := e.handle(a[0])
		if herr != nil {
			return "", true, herr
		}
		sh, serr := e.shape(a[1])
		if serr != nil {
			return "", true, serr
		}
		seconds, serr := e.scalar(a[2])
		if serr != nil {
			return "", true, serr
		}
		u, uerr := e.unitArg(a[3])
		if uerr != nil {
			return "", true, uerr
		}
		err = g.Crossfade(h, sh, seconds, u)
	case "connect":
		src, serr := e.handle(a[0])
		if serr != nil {
			return "", true, serr
		}
		dst, derr := e.handle(a[2])
		if derr != nil {
			return "", true, derr
		}
		ports, perr := e.ints(a[1], a[3])
		if perr != nil {
			return "", true, perr
		}
		err = g.Connect(src, ports[0], dst, ports[1])
	case "disconnect":
		h, herr := e.handle(a[0])
		if herr != nil {
			return "", true, herr
		}
		port, perr := e.integer(a[1])
		if perr != nil {
			return "", true, perr
		}
		err = g.Disconnect(h, port)
	case "disconnect_output":
		out, perr := e.integer(a[0])
		if perr != nil {
			return "", true, perr
		}
		err = g.DisconnectOutput(out)
	case "connect_input":
		dst, derr := e.handle(a[1])
		if derr != nil {
			return "", true, derr
		}
		ports, perr := e.ints(a[0], a[2])
		if perr != nil {
			return "", true, perr
		}
		err = g.ConnectInput(ports[0], dst, ports[1])
	case "connect_output":
		src, serr := e.handle(a[0])
		if serr != nil {
			return "", true, serr
		}
		ports, perr := e.ints(a[1], a[2])
		if perr != nil {
			return "", true, perr
		}
		err = g.ConnectOutput(src, ports[0], ports[1])
	case "pass_through":
		ports, perr := e.ints(a[0], a[1])
		if perr != nil {
			return "", true, perr
		}
		err = g.PassThrough(ports[0], ports[1])
	case "commit":
		err = g.Commit()
	case "play":
		err = e.play(g, a)
	}
	return "", true, err
}

// play sends a snapshot of g to the slot. A graph with a backend keeps
// playing its backend, so later commits stay audible.
func (e *Evaluator) play(g *graph.Graph, args []lang.Expr) error {
	if e.slot == nil {
		return ErrNoSlot
	}

	sh, seconds := e.fadeShape, e.fadeSeconds
	var err error
	if len(args) >= 1 {
		if sh, err = e.shape(args[0]); err != nil {
			return err
		}
	}
	if len(args) == 2 {
		if seconds, err = e.scalar(args[1]); err != nil {
			return err
		}
	}

	var u graph.Unit = g.CloneGraph()
	if g.HasBackend() {
		b, err := g.Backend()
		if err != nil {
			return err
		}
		u = b
	}
	return e.slot.Set(sh, seconds, u)
}

func (e *Evaluator) ints(xs ...lang.Expr) ([]int, error) {
	out := make([]int, len(xs))
	for i, x := range xs {
		n, err := e.integer(x)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

//nolint:cyclop
func (e *Evaluator) sequencerCommand(s Sequencer, m *lang.MethodCall) (string, bool, error) {
	switch m.Name {
	case "edit", "edit_relative":
		if err := argc(m.Name, m.Args, 3, 3); err != nil {
			return "", true, err
		}
		v, err := e.resolveAs(KindEvent, m.Args[0])
		if err != nil {
			return "", true, err
		}
		xs, err := e.scalars(m.Args[1:])
		if err != nil {
			return "", true, err
		}
		h := v.(Event)
		if m.Name == "edit" {
			return "", true, s.S.Edit(sequencer.EventHandle(h), xs[0], xs[1])
		}
		return "", true, s.S.EditRelative(sequencer.EventHandle(h), xs[0], xs[1])
	case "reset":
		if err := argc(m.Name, m.Args, 0, 0); err != nil {
			return "", true, err
		}
		return "", true, s.S.Reset()
	case "set_average":
		if err := argc(m.Name, m.Args, 1, 1); err != nil {
			return "", true, err
		}
		on, err := e.boolean(m.Args[0])
		if err != nil {
			return "", true, err
		}
		return "", true, s.S.SetAverage(on)
	case "state":
		if err := argc(m.Name, m.Args, 1, 1); err != nil {
			return "", true, err
		}
		v, err := e.resolveAs(KindEvent, m.Args[0])
		if err != nil {
			return "", true, err
		}
		st, err := s.S.State(sequencer.EventHandle(v.(Event)))
		if err != nil {
			return "", true, err
		}
		return st.String(), true, nil
	default:
		return "", false, nil
	}
}

func (e *Evaluator) sourceCommand(s Source, m *lang.MethodCall) (string, bool, error) {
	switch m.Name {
	case "note_on", "note_off":
		lo := 2
		if m.Name == "note_off" {
			lo = 1
		}
		if err := argc(m.Name, m.Args, lo, lo); err != nil {
			return "", true, err
		}
		xs, err := e.ints(m.Args...)
		if err != nil {
			return "", true, err
		}
		for _, x := range xs {
			if x < 0 || x > 127 {
				return "", true, fmt.Errorf("%w: %d is not a 7-bit value", ErrArgs, x)
			}
		}
		if m.Name == "note_on" {
			s.S.NoteOn(uint8(xs[0]), uint8(xs[1]))
		} else {
			s.S.NoteOff(uint8(xs[0]))
		}
		return "", true, nil
	case "close":
		if err := argc(m.Name, m.Args, 0, 0); err != nil {
			return "", true, err
		}
		return "", true, s.S.Close()
	default:
		return "", false, nil
	}
}
