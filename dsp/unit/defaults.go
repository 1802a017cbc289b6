package unit

import (
	"fmt"

	"github.com/cwbudde/algo-livecode/dsp/graph"
)

// DefaultRegistry returns a Registry holding every built-in leaf.
//
//nolint:funlen
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, w := range []Waveform{Sine, Saw, Square, Triangle} {
		r.MustRegister(Spec{
			Name:    w.String() + "_hz",
			MinArgs: 1,
			MaxArgs: 1,
			Usage:   w.String() + "_hz(hz): fixed-frequency oscillator, 0 in 1 out",
			Factory: func(_ Context, args []float64) (graph.Unit, error) {
				return NewOsc(w, args[0]), nil
			},
		})
		r.MustRegister(Spec{
			Name:    w.String(),
			MinArgs: 0,
			MaxArgs: 0,
			Usage:   w.String() + "(): oscillator with frequency input, 1 in 1 out",
			Factory: func(_ Context, _ []float64) (graph.Unit, error) {
				return NewOscIn(w), nil
			},
		})
	}

	r.MustRegister(Spec{
		Name:    "oscillator_hz",
		MinArgs: 1,
		MaxArgs: 1,
		Usage:   "oscillator_hz(hz): sine oscillator, 0 in 1 out",
		Factory: func(_ Context, args []float64) (graph.Unit, error) {
			return NewOsc(Sine, args[0]), nil
		},
	})

	r.MustRegister(Spec{
		Name:    "noise",
		MinArgs: 0,
		MaxArgs: 1,
		Usage:   "noise([seed]): white noise, 0 in 1 out",
		Factory: func(ctx Context, args []float64) (graph.Unit, error) {
			return NewNoise(uint64(arg(args, 0, float64(ctx.Seed)))), nil
		},
	})

	for name, kind := range map[string]FilterKind{"lowpass_hz": Lowpass, "highpass_hz": Highpass, "bandpass_hz": Bandpass} {
		r.MustRegister(Spec{
			Name:    name,
			MinArgs: 1,
			MaxArgs: 2,
			Usage:   name + "(hz, [q]): biquad filter, 1 in 1 out",
			Factory: func(_ Context, args []float64) (graph.Unit, error) {
				return NewBiquad(kind, args[0], arg(args, 1, 0.7071067811865476))
			},
		})
	}

	r.MustRegister(Spec{
		Name:    "delay",
		MinArgs: 1,
		MaxArgs: 1,
		Usage:   "delay(seconds): fixed delay, 1 in 1 out",
		Factory: func(_ Context, args []float64) (graph.Unit, error) {
			return NewDelay(args[0])
		},
	})

	r.MustRegister(Spec{
		Name:    "adsr",
		MinArgs: 4,
		MaxArgs: 4,
		Usage:   "adsr(attack, decay, sustain, release): gate-driven envelope, 1 in 1 out",
		Factory: func(_ Context, args []float64) (graph.Unit, error) {
			return NewADSR(args[0], args[1], args[2], args[3])
		},
	})

	r.MustRegister(Spec{
		Name:    "dc",
		MinArgs: 1,
		MaxArgs: 16,
		Usage:   "dc(x, ...): constant outputs, 0 in n out",
		Factory: func(_ Context, args []float64) (graph.Unit, error) {
			return graph.NewConstant(args...), nil
		},
	})
	r.MustRegister(Spec{
		Name:    "zero",
		MinArgs: 0,
		MaxArgs: 0,
		Usage:   "zero(): silence, 0 in 1 out",
		Factory: func(_ Context, _ []float64) (graph.Unit, error) {
			return graph.NewConstant(0), nil
		},
	})

	widths := []struct {
		name  string
		usage string
		build func(n int) graph.Unit
	}{
		{"pass", "pass([n]): identity, n in n out", func(n int) graph.Unit { return graph.NewPass(n) }},
		{"sink", "sink([n]): discard, n in 0 out", func(n int) graph.Unit { return &Sink{n: n} }},
		{"split", "split([n]): copy one input, 1 in n out", func(n int) graph.Unit { return &Split{n: n} }},
		{"join", "join([n]): average, n in 1 out", func(n int) graph.Unit { return &Join{n: n} }},
	}
	for _, w := range widths {
		r.MustRegister(Spec{
			Name:    w.name,
			MinArgs: 0,
			MaxArgs: 1,
			Usage:   w.usage,
			Factory: func(_ Context, args []float64) (graph.Unit, error) {
				n, err := count(args, 0, 1)
				if err != nil {
					return nil, err
				}
				return w.build(n), nil
			},
		})
	}

	r.MustRegister(Spec{
		Name:    "mul",
		MinArgs: 1,
		MaxArgs: 2,
		Usage:   "mul(k, [n]): scale, n in n out",
		Factory: func(_ Context, args []float64) (graph.Unit, error) {
			n, err := count(args, 1, 1)
			if err != nil {
				return nil, err
			}
			return &Gain{k: args[0], n: n}, nil
		},
	})
	r.MustRegister(Spec{
		Name:    "add",
		MinArgs: 1,
		MaxArgs: 2,
		Usage:   "add(k, [n]): offset, n in n out",
		Factory: func(_ Context, args []float64) (graph.Unit, error) {
			n, err := count(args, 1, 1)
			if err != nil {
				return nil, err
			}
			return &Offset{k: args[0], n: n}, nil
		},
	})
	r.MustRegister(Spec{
		Name:    "pan",
		MinArgs: 0,
		MaxArgs: 1,
		Usage:   "pan([pos]): equal-power panner, 1 in 2 out",
		Factory: func(_ Context, args []float64) (graph.Unit, error) {
			return NewPan(arg(args, 0, 0)), nil
		},
	})

	r.MustRegister(Spec{
		Name:    "input",
		MinArgs: 1,
		MaxArgs: 1,
		Usage:   "input(ch): capture channel, 0 in 1 out",
		Factory: func(ctx Context, args []float64) (graph.Unit, error) {
			ch := int(args[0])
			if float64(ch) != args[0] || ch < 0 || ch >= len(ctx.Inputs) {
				return nil, fmt.Errorf("%w: no capture channel %g", ErrArgs, args[0])
			}
			return NewInput(ctx.Inputs[ch]), nil
		},
	})

	return r
}
