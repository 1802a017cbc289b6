package unit

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/ring"
)

func dummyFactory(_ Context, _ []float64) (graph.Unit, error) {
	return graph.NewConstant(0), nil
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()

	t.Run("registers and looks up", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		if err := r.Register(Spec{Name: "x", Factory: dummyFactory}); err != nil {
			t.Fatalf("Register: %v", err)
		}
		if _, ok := r.Lookup("x"); !ok {
			t.Fatal("Lookup failed for registered name")
		}
	})

	t.Run("rejects invalid specs", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		bad := []Spec{
			{Name: "", Factory: dummyFactory},
			{Name: "x"},
			{Name: "x", MinArgs: 2, MaxArgs: 1, Factory: dummyFactory},
		}
		for _, s := range bad {
			if err := r.Register(s); err == nil {
				t.Fatalf("Register(%+v) expected error", s)
			}
		}
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		t.Parallel()

		r := NewRegistry()
		_ = r.Register(Spec{Name: "x", Factory: dummyFactory})
		if err := r.Register(Spec{Name: "x", Factory: dummyFactory}); !errors.Is(err, errDuplicate) {
			t.Fatalf("err = %v, want duplicate", err)
		}
	})
}

func TestBuildChecksArguments(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	ctx := Context{SampleRate: 44100}

	if _, err := r.Build(ctx, "nope", nil); !errors.Is(err, ErrUnknown) {
		t.Fatalf("unknown err = %v", err)
	}
	if _, err := r.Build(ctx, "sine_hz", nil); !errors.Is(err, ErrArgs) {
		t.Fatalf("missing arg err = %v", err)
	}
	if _, err := r.Build(ctx, "lowpass_hz", []float64{-1}); !errors.Is(err, ErrArgs) {
		t.Fatalf("bad cutoff err = %v", err)
	}
	if _, err := r.Build(ctx, "split", []float64{1.5}); !errors.Is(err, ErrArgs) {
		t.Fatalf("fractional width err = %v", err)
	}
	if _, err := r.Build(ctx, "input", []float64{0}); !errors.Is(err, ErrArgs) {
		t.Fatalf("missing capture err = %v", err)
	}
}

func TestDefaultArities(t *testing.T) {
	t.Parallel()

	s, _ := ring.NewStream(16)
	r := DefaultRegistry()
	ctx := Context{SampleRate: 48000, Inputs: []*ring.Stream{s}}

	tests := []struct {
		name    string
		args    []float64
		in, out int
	}{
		{"oscillator_hz", []float64{440}, 0, 1},
		{"sine_hz", []float64{440}, 0, 1},
		{"saw", nil, 1, 1},
		{"noise", nil, 0, 1},
		{"lowpass_hz", []float64{1000}, 1, 1},
		{"highpass_hz", []float64{1000, 2}, 1, 1},
		{"delay", []float64{0.1}, 1, 1},
		{"adsr", []float64{0.01, 0.1, 0.5, 0.2}, 1, 1},
		{"dc", []float64{1, 2, 3}, 0, 3},
		{"zero", nil, 0, 1},
		{"pass", []float64{2}, 2, 2},
		{"sink", nil, 1, 0},
		{"split", []float64{4}, 1, 4},
		{"join", []float64{3}, 3, 1},
		{"mul", []float64{0.5, 2}, 2, 2},
		{"add", []float64{1}, 1, 1},
		{"pan", []float64{0.3}, 1, 2},
		{"input", []float64{0}, 0, 1},
	}

	for _, tt := range tests {
		u, err := r.Build(ctx, tt.name, tt.args)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if u.Inputs() != tt.in || u.Outputs() != tt.out {
			t.Fatalf("%s arity = (%d, %d), want (%d, %d)", tt.name, u.Inputs(), u.Outputs(), tt.in, tt.out)
		}
	}
}

func TestNamesSorted(t *testing.T) {
	t.Parallel()

	names := DefaultRegistry().Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
}
