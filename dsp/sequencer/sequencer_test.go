package sequencer

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/internal/testutil"
)

// ramp outputs 0, 1, 2, ... and restarts on Reset.
type ramp struct{ n float64 }

func (r *ramp) Inputs() int           { return 0 }
func (r *ramp) Outputs() int          { return 1 }
func (r *ramp) Tick(_, out []float64) { out[0] = r.n; r.n++ }
func (r *ramp) Reset()                { r.n = 0 }
func (r *ramp) SetSampleRate(float64) {}
func (r *ramp) Clone() graph.Unit     { c := *r; return &c }

func newSeq(t *testing.T, replay bool, opts ...Option) *Sequencer {
	t.Helper()

	s, err := New(replay, 1, append([]Option{WithSampleRate(100)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func render(b *Backend, n int) []float64 {
	got := make([]float64, n)
	out := make([]float64, b.Outputs())
	for i := range got {
		b.Tick(nil, out)
		got[i] = out[0]
	}
	return got
}

func TestNewRejectsZeroOutputs(t *testing.T) {
	t.Parallel()

	if _, err := New(false, 0); !errors.Is(err, ErrArity) {
		t.Fatalf("err = %v, want ErrArity", err)
	}
}

func TestPushRejectsFadeLongerThanEvent(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	h, err := s.Push(0, 1, fade.Smooth, 1.5, 0.1, graph.NewConstant(1))
	if !errors.Is(err, ErrFade) {
		t.Fatalf("err = %v, want ErrFade", err)
	}
	if !h.IsZero() || s.Len() != 0 {
		t.Fatalf("rejected push produced %v, %d events", h, s.Len())
	}
}

func TestPushDurationFadeProperty(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	for _, duration := range []float64{0.25, 1, 3.5} {
		for _, fadeIn := range []float64{0, 0.2, 1, 4} {
			for _, fadeOut := range []float64{0, 0.25, 2} {
				h, err := s.PushDuration(0.5, duration, fade.Power, fadeIn, fadeOut, graph.NewConstant(1))
				reject := fadeIn > duration || fadeOut > duration

				if reject {
					if !errors.Is(err, ErrFade) || !h.IsZero() {
						t.Fatalf("duration %g fades (%g, %g): got %v, %v; want rejection",
							duration, fadeIn, fadeOut, h, err)
					}
					continue
				}
				if err != nil || h.IsZero() {
					t.Fatalf("duration %g fades (%g, %g): %v", duration, fadeIn, fadeOut, err)
				}
			}
		}
	}
}

func TestPushValidation(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	tests := []struct {
		name       string
		start, end float64
		u          graph.Unit
		want       error
	}{
		{"inputs", 0, 1, graph.NewPass(1), ErrArity},
		{"width", 0, 1, graph.NewConstant(1, 2), ErrArity},
		{"nil", 0, 1, nil, ErrArity},
		{"empty", 1, 1, graph.NewConstant(1), ErrTime},
		{"reversed", 2, 1, graph.NewConstant(1), ErrTime},
		{"negative", -1, 1, graph.NewConstant(1), ErrTime},
	}

	for _, tt := range tests {
		if _, err := s.Push(tt.start, tt.end, fade.Smooth, 0, 0, tt.u); !errors.Is(err, tt.want) {
			t.Fatalf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestEventLifecycle(t *testing.T) {
	t.Parallel()

	s, _ := New(false, 1, WithSampleRate(1000))
	h, err := s.Push(0, 1, fade.Smooth, 0.1, 0.1, graph.NewConstant(1))
	if err != nil || h.IsZero() {
		t.Fatalf("Push: %v %v", h, err)
	}

	state := func() State {
		st, err := s.State(h)
		if err != nil {
			t.Fatalf("State: %v", err)
		}
		return st
	}

	if state() != Scheduled {
		t.Fatalf("before playback: %v", state())
	}

	b := s.Backend()
	render(b, 1)
	if state() != Active {
		t.Fatalf("at t=0: %v, want active", state())
	}

	render(b, 999)
	if state() != Active {
		t.Fatalf("at t=0.999: %v, want active", state())
	}

	render(b, 1)
	if state() != Finished {
		t.Fatalf("at t=1: %v, want finished", state())
	}
}

func TestFinishedEventsAreDropped(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	h, err := s.Push(0, 0.01, fade.Smooth, 0, 0, graph.NewConstant(1))
	if err != nil {
		t.Fatal(err)
	}
	render(s.Backend(), 2)

	for range 2 {
		if st, err := s.State(h); err != nil || st != Finished {
			t.Fatalf("State = %v, %v, want finished", st, err)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}
	if err := s.Edit(h, 1, 0); !errors.Is(err, ErrFinished) {
		t.Fatalf("Edit err = %v, want ErrFinished", err)
	}
	if _, err := s.State(EventHandle{seq: s.id, id: 99}); !errors.Is(err, ErrHandle) {
		t.Fatalf("unissued handle err = %v, want ErrHandle", err)
	}
}

func TestPushSweepsFinishedEvents(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	b := s.Backend()
	for i := range 3 * minSweep {
		start := float64(i) * 0.01
		if _, err := s.Push(start, start+0.01, fade.Smooth, 0, 0, graph.NewConstant(1)); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
		render(b, 2)
	}
	if s.Len() > 2*minSweep {
		t.Fatalf("Len() = %d, finished events were not swept", s.Len())
	}
}

func TestOverlappingEventsSum(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	_, _ = s.Push(0, 1, fade.Smooth, 0, 0, graph.NewConstant(1))
	_, _ = s.Push(0.5, 1, fade.Smooth, 0, 0, graph.NewConstant(2))

	got := render(s.Backend(), 101)
	if got[10] != 1 || got[60] != 3 || got[100] != 0 {
		t.Fatalf("sum = %v %v %v, want 1 3 0", got[10], got[60], got[100])
	}
}

func TestMixAverage(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	_, _ = s.Push(0, 1, fade.Smooth, 0, 0, graph.NewConstant(1))
	_, _ = s.Push(0.5, 1, fade.Smooth, 0, 0, graph.NewConstant(2))
	b := s.Backend()

	if err := s.SetAverage(true); err != nil {
		t.Fatal(err)
	}
	got := render(b, 61)
	if got[10] != 1 || got[60] != 1.5 {
		t.Fatalf("average = %v %v, want 1 1.5", got[10], got[60])
	}
	if s.Mix() != MixAverage || b.ActiveEvents() != 2 {
		t.Fatalf("mix %v, active %d", s.Mix(), b.ActiveEvents())
	}
}

func TestEnvelopeRampsAreBounded(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	_, _ = s.Push(0, 1, fade.Smooth, 0.2, 0.2, graph.NewConstant(1))

	got := render(s.Backend(), 100)
	testutil.RequireMaxStep(t, got, 0.051)
	if got[0] != 0 || got[50] != 1 {
		t.Fatalf("envelope = %v .. %v", got[0], got[50])
	}
}

func TestEditMovesEnd(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	h, _ := s.Push(0, 10, fade.Smooth, 0, 0, graph.NewConstant(1))
	b := s.Backend()
	render(b, 20)

	if err := s.EditRelative(h, 0.3, 0); err != nil {
		t.Fatalf("EditRelative: %v", err)
	}

	got := render(b, 40)
	if got[29] != 1 || got[30] != 0 {
		t.Fatalf("edited end: %v %v", got[29], got[30])
	}
	if st, _ := s.State(h); st != Finished {
		t.Fatalf("state %v, want finished", st)
	}
	if err := s.Edit(h, 5, 0); !errors.Is(err, ErrFinished) {
		t.Fatalf("edit after finish: %v", err)
	}
}

func TestEditValidation(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	h, _ := s.Push(0, 2, fade.Smooth, 0.4, 0, graph.NewConstant(1))

	if err := s.Edit(h, 0, 0); !errors.Is(err, ErrTime) {
		t.Fatalf("empty edit: %v", err)
	}
	if err := s.Edit(h, 0.3, 0); !errors.Is(err, ErrFade) {
		t.Fatalf("fade-in no longer fits: %v", err)
	}
	if err := s.Edit(h, 1, 1.5); !errors.Is(err, ErrFade) {
		t.Fatalf("fade-out too long: %v", err)
	}
	if err := s.Edit(h, 1, 0.5); err != nil {
		t.Fatalf("staged edit: %v", err)
	}

	got := render(s.Backend(), 101)
	if got[99] == 0 || got[100] != 0 {
		t.Fatalf("staged edit lost: %v %v", got[99], got[100])
	}

	other := newSeq(t, false)
	if err := other.Edit(h, 1, 0); !errors.Is(err, ErrHandle) {
		t.Fatalf("foreign handle: %v", err)
	}
	if _, err := other.State(h); !errors.Is(err, ErrHandle) {
		t.Fatalf("foreign State: %v", err)
	}
}

func TestEditKeepsElapsedFadeIn(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	h, _ := s.Push(0, 4, fade.Smooth, 0.5, 0, graph.NewConstant(1))
	b := s.Backend()
	before := render(b, 25)

	_ = s.Edit(h, 2, 0.5)
	after := render(b, 1)

	// Still halfway through the fade-in.
	if d := after[0] - before[24]; d < 0 || d > 0.021 {
		t.Fatalf("fade-in disturbed by edit: %v -> %v", before[24], after[0])
	}
}

func TestResetReplay(t *testing.T) {
	t.Parallel()

	for _, replay := range []bool{false, true} {
		s := newSeq(t, replay)
		h, _ := s.Push(0, 0.1, fade.Smooth, 0, 0, &ramp{})
		b := s.Backend()

		render(b, 20)
		if err := s.Reset(); err != nil {
			t.Fatal(err)
		}
		got := render(b, 2)
		st, _ := s.State(h)

		if replay {
			if st != Active || got[0] != 0 || got[1] != 1 {
				t.Fatalf("replay: state %v, out %v", st, got)
			}
			continue
		}
		if st != Finished || got[0] != 0 || got[1] != 0 {
			t.Fatalf("no replay: state %v, out %v", st, got)
		}
	}
}

func TestPushRelativeUsesPlayTime(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	b := s.Backend()
	render(b, 50)

	if got := s.Time(); got != 0.5 {
		t.Fatalf("Time() = %v, want 0.5", got)
	}

	_, err := s.PushRelative(0.25, 0.5, fade.Smooth, 0, 0, graph.NewConstant(1))
	if err != nil {
		t.Fatal(err)
	}
	got := render(b, 51)
	if got[24] != 0 || got[25] != 1 || got[50] != 0 {
		t.Fatalf("relative event = %v %v %v", got[24], got[25], got[50])
	}
}

func TestFullQueueRejects(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false, WithQueue(1))
	b := s.Backend()

	if _, err := s.Push(0, 1, fade.Smooth, 0, 0, graph.NewConstant(1)); err != nil {
		t.Fatal(err)
	}
	h, err := s.Push(0, 1, fade.Smooth, 0, 0, graph.NewConstant(1))
	if !errors.Is(err, ErrBusy) || !h.IsZero() || s.Len() != 1 {
		t.Fatalf("second push: %v %v, %d events", h, err, s.Len())
	}
	if err := s.Reset(); !errors.Is(err, ErrBusy) {
		t.Fatalf("Reset: %v", err)
	}

	render(b, 1)
	if _, err := s.Push(0, 1, fade.Smooth, 0, 0, graph.NewConstant(1)); err != nil {
		t.Fatalf("push after drain: %v", err)
	}
}

func TestBackendIsSharedAndLive(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	b := s.Backend()

	if s.Backend() != b || b.Clone() != graph.Unit(b) {
		t.Fatal("one backend per sequencer")
	}
	if !graph.IsLive(b) {
		t.Fatal("backend must report live")
	}
	if b.Inputs() != 0 || b.Outputs() != 1 {
		t.Fatalf("arity (%d, %d)", b.Inputs(), b.Outputs())
	}
}

func TestSampleRateBeforePlayback(t *testing.T) {
	t.Parallel()

	s := newSeq(t, false)
	_, _ = s.Push(0, 1, fade.Smooth, 0, 0, graph.NewConstant(1))
	b := s.Backend()

	b.SetSampleRate(10)
	if s.SampleRate() != 10 {
		t.Fatalf("SampleRate() = %v", s.SampleRate())
	}
	got := render(b, 11)
	if got[9] != 1 || got[10] != 0 {
		t.Fatalf("rate not applied: %v %v", got[9], got[10])
	}

	b.SetSampleRate(1000)
	if s.SampleRate() != 10 {
		t.Fatal("rate must not change during playback")
	}
}

func TestConcurrentPushAndTick(t *testing.T) {
	t.Parallel()

	s := newSeq(t, true)
	b := s.Backend()

	done := make(chan struct{})
	go func() {
		defer close(done)
		out := make([]float64, 1)
		for range 5000 {
			b.Tick(nil, out)
		}
	}()

	for i := range 200 {
		h, err := s.PushRelative(0, 0.05, fade.Power, 0.01, 0.01, graph.NewConstant(0.1))
		if errors.Is(err, ErrBusy) {
			continue
		}
		if err != nil {
			t.Errorf("push %d: %v", i, err)
			break
		}
		_ = s.EditRelative(h, 0.02, 0)
	}
	<-done
}
