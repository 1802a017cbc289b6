package unit

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/dsp/ring"
)

var (
	// ErrUnknown reports a constructor name that is not registered.
	ErrUnknown = errors.New("unit: unknown constructor")
	// ErrArgs reports a wrong argument count or value.
	ErrArgs = errors.New("unit: invalid arguments")

	errDuplicate = errors.New("unit: duplicate constructor")
)

// Context provides what constructors need from the session.
type Context struct {
	SampleRate float64
	// Inputs are the capture streams read by input(ch).
	Inputs []*ring.Stream
	// Seed initializes noise generators.
	Seed uint64
}

// Factory builds one unit from numeric arguments.
type Factory func(ctx Context, args []float64) (graph.Unit, error)

// Spec describes a registered constructor.
type Spec struct {
	Name    string
	MinArgs int
	MaxArgs int
	Usage   string
	Factory Factory
}

// Registry maps constructor names to their specs.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register adds a constructor.
func (r *Registry) Register(s Spec) error {
	if s.Name == "" {
		return errors.New("unit: empty constructor name")
	}
	if s.Factory == nil {
		return errors.New("unit: nil factory")
	}
	if s.MaxArgs < s.MinArgs {
		return fmt.Errorf("unit: %s: max args %d < min args %d", s.Name, s.MaxArgs, s.MinArgs)
	}
	if _, ok := r.specs[s.Name]; ok {
		return fmt.Errorf("%w: %s", errDuplicate, s.Name)
	}

	r.specs[s.Name] = s
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(s Spec) {
	if err := r.Register(s); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for n := range r.specs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build checks the argument count and runs the factory.
func (r *Registry) Build(ctx Context, name string, args []float64) (graph.Unit, error) {
	s, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	if len(args) < s.MinArgs || len(args) > s.MaxArgs {
		return nil, fmt.Errorf("%w: %s takes %s, got %d", ErrArgs, name, argRange(s), len(args))
	}

	u, err := s.Factory(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if sr := ctx.SampleRate; sr > 0 {
		u.SetSampleRate(sr)
	}
	return u, nil
}

func argRange(s Spec) string {
	if s.MinArgs == s.MaxArgs {
		return fmt.Sprintf("%d args", s.MinArgs)
	}
	return fmt.Sprintf("%d to %d args", s.MinArgs, s.MaxArgs)
}

// arg returns args[i] or def when absent.
func arg(args []float64, i int, def float64) float64 {
	if i < len(args) {
		return args[i]
	}
	return def
}

// count converts a width argument to a channel count in [1, 64].
func count(args []float64, i int, def int) (int, error) {
	v := arg(args, i, float64(def))
	n := int(v)
	if float64(n) != v || n < 1 || n > 64 {
		return 0, fmt.Errorf("%w: channel count %g", ErrArgs, v)
	}
	return n, nil
}
