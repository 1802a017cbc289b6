package graph

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-livecode/internal/testutil"
)

func TestSeriesArityProperty(t *testing.T) {
	t.Parallel()

	for ai := range 3 {
		for ao := range 3 {
			for bi := range 3 {
				for bo := range 3 {
					a, b := shape{ai, ao}, shape{bi, bo}
					g, err := Series(a, b)

					if ao != bi {
						if g != nil || !errors.Is(err, ErrArity) {
							t.Fatalf("Series(%v, %v) = %v, %v; want no result", a, b, g, err)
						}
						continue
					}
					if err != nil {
						t.Fatalf("Series(%v, %v): %v", a, b, err)
					}
					if g.Inputs() != ai || g.Outputs() != bo {
						t.Fatalf("Series(%v, %v) arity = (%d, %d)", a, b, g.Inputs(), g.Outputs())
					}
				}
			}
		}
	}
}

func TestSumProductArityProperty(t *testing.T) {
	t.Parallel()

	ops := map[string]func(a, b Unit) (*Graph, error){
		"sum":        Sum,
		"product":    Product,
		"difference": Difference,
	}

	for name, op := range ops {
		for ai := range 3 {
			for ao := range 3 {
				for bi := range 3 {
					for bo := range 3 {
						a, b := shape{ai, ao}, shape{bi, bo}
						g, err := op(a, b)

						if ao != bo {
							if g != nil || !errors.Is(err, ErrArity) {
								t.Fatalf("%s(%v, %v): want ErrArity, got %v", name, a, b, err)
							}
							continue
						}
						if err != nil {
							t.Fatalf("%s(%v, %v): %v", name, a, b, err)
						}
						if g.Inputs() != ai+bi || g.Outputs() != ao {
							t.Fatalf("%s(%v, %v) arity = (%d, %d)", name, a, b, g.Inputs(), g.Outputs())
						}
					}
				}
			}
		}
	}
}

func TestBinaryOperatorValues(t *testing.T) {
	t.Parallel()

	a, b := NewConstant(3), NewConstant(2)

	tests := []struct {
		name string
		op   func(a, b Unit) (*Graph, error)
		want float64
	}{
		{"sum", Sum, 5},
		{"difference", Difference, 1},
		{"product", Product, 6},
		{"bus", Bus, 5},
	}

	for _, tt := range tests {
		g, err := tt.op(a, b)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got := column(tickN(g, 1), 0)[0]; got != tt.want {
			t.Fatalf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestScalarOperators(t *testing.T) {
	t.Parallel()

	a := NewConstant(4)

	tests := []struct {
		name string
		g    func() (*Graph, error)
		want float64
	}{
		{"add", func() (*Graph, error) { return ScalarAdd(a, 1) }, 5},
		{"sub", func() (*Graph, error) { return ScalarSub(a, 1) }, 3},
		{"sub-from", func() (*Graph, error) { return ScalarSubFrom(1, a) }, -3},
		{"mul", func() (*Graph, error) { return ScalarMul(a, 0.5) }, 2},
		{"neg", func() (*Graph, error) { return Neg(a) }, -4},
	}

	for _, tt := range tests {
		g, err := tt.g()
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if g.Inputs() != 0 || g.Outputs() != 1 {
			t.Fatalf("%s arity = (%d, %d)", tt.name, g.Inputs(), g.Outputs())
		}
		if got := column(tickN(g, 1), 0)[0]; got != tt.want {
			t.Fatalf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStackBusBranch(t *testing.T) {
	t.Parallel()

	double := &gain{k: 2, n: 1}
	triple := &gain{k: 3, n: 1}

	st, _ := Stack(double, triple)
	if st.Inputs() != 2 || st.Outputs() != 2 {
		t.Fatalf("Stack arity = (%d, %d)", st.Inputs(), st.Outputs())
	}
	out := tickN(st, 1, 1, 10)[0]
	testutil.RequireSliceNearlyEqual(t, out, []float64{2, 30}, 0)

	bus, err := Bus(double, triple)
	if err != nil {
		t.Fatal(err)
	}
	if got := tickN(bus, 1, 1)[0][0]; got != 5 {
		t.Fatalf("Bus = %v, want 5", got)
	}

	br, _ := Branch(double, triple)
	out = tickN(br, 1, 2)[0]
	testutil.RequireSliceNearlyEqual(t, out, []float64{4, 6}, 0)

	if _, err := Bus(shape{1, 1}, shape{2, 1}); !errors.Is(err, ErrArity) {
		t.Fatalf("Bus arity err = %v", err)
	}
	if _, err := Branch(shape{1, 1}, shape{2, 1}); !errors.Is(err, ErrArity) {
		t.Fatalf("Branch arity err = %v", err)
	}
}

func TestThru(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, out int
		x       []float64
		want    []float64
	}{
		{in: 0, out: 1, x: []float64{4}, want: nil},
		{in: 2, out: 1, x: []float64{4}, want: []float64{4, 0}},
		{in: 1, out: 3, x: []float64{4, 5, 6}, want: []float64{4}},
		{in: 2, out: 2, x: []float64{4, 5}, want: []float64{4, 5}},
	}

	for _, tt := range tests {
		g, err := Thru(shape{tt.in, tt.out})
		if err != nil {
			t.Fatal(err)
		}
		if g.Inputs() != tt.out || g.Outputs() != tt.in {
			t.Fatalf("Thru(%d, %d) arity = (%d, %d)", tt.in, tt.out, g.Inputs(), g.Outputs())
		}
		out := tickN(g, 1, tt.x...)[0]
		testutil.RequireSliceNearlyEqual(t, out, tt.want, 0)
	}
}

func TestFeedbackLoopDelaysOneSample(t *testing.T) {
	t.Parallel()

	if _, err := FeedbackLoop(shape{1, 2}); !errors.Is(err, ErrArity) {
		t.Fatalf("err = %v, want ErrArity", err)
	}

	// y[t] = 0.5 * (x[t] + y[t-1]) driven by an impulse.
	g, err := FeedbackLoop(&gain{k: 0.5, n: 1})
	if err != nil {
		t.Fatal(err)
	}

	got := make([]float64, 4)
	out := make([]float64, 1)
	for i := range got {
		x := 0.0
		if i == 0 {
			x = 1
		}
		g.Tick([]float64{x}, out)
		got[i] = out[0]
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{0.5, 0.25, 0.125, 0.0625}, 1e-15)
}

func TestFeedbackLoopFlushesTinyState(t *testing.T) {
	t.Parallel()

	g, _ := FeedbackLoop(&gain{k: 1e-16, n: 1})
	out := make([]float64, 1)
	g.Tick([]float64{1}, out)
	g.Tick([]float64{0}, out)
	if out[0] == 0 {
		t.Fatal("second sample should still carry the decayed impulse")
	}
	g.Tick([]float64{0}, out)
	if out[0] != 0 {
		t.Fatalf("third sample = %v, want exact zero", out[0])
	}
}

func TestOperandsAreNotModified(t *testing.T) {
	t.Parallel()

	a, _ := New(0, 1)
	_, _ = a.Chain(&counter{})
	b := Wrap(NewConstant(1))

	sum, _ := Sum(a, b)
	tickN(sum, 10)

	if a.Size() != 1 || b.Size() != 1 {
		t.Fatal("operands must keep their structure")
	}
	if got := column(tickN(a, 1), 0)[0]; got != 0 {
		t.Fatalf("operand state advanced: %v", got)
	}
}
