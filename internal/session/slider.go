package session

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-livecode/dsp/core"
	"github.com/cwbudde/algo-livecode/internal/eval"
)

var (
	// ErrSlider reports an invalid slider definition.
	ErrSlider = errors.New("session: invalid slider")
	// ErrNoSlider reports an unknown slider name.
	ErrNoSlider = errors.New("session: no such slider")
)

// Slider binds a GUI control to a scalar or cell binding. Speed is the
// drag sensitivity a front end applies; Step quantizes values when positive.
type Slider struct {
	Name  string  `json:"name" yaml:"name"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Speed float64 `json:"speed" yaml:"speed"`
	Step  float64 `json:"step" yaml:"step"`
}

// SliderState is a slider with its current value.
type SliderState struct {
	Slider
	Value float64 `json:"value"`
}

type slider struct {
	def   Slider
	value float64
}

func (d Slider) validate() error {
	switch {
	case d.Name == "":
		return fmt.Errorf("%w: empty name", ErrSlider)
	case !core.IsFinite(d.Min) || !core.IsFinite(d.Max) || d.Min >= d.Max:
		return fmt.Errorf("%w: %s range [%g, %g]", ErrSlider, d.Name, d.Min, d.Max)
	case d.Step < 0 || d.Speed < 0:
		return fmt.Errorf("%w: %s step %g speed %g", ErrSlider, d.Name, d.Step, d.Speed)
	}
	return nil
}

// quantize clamps x to the range and snaps it to the step grid.
func (d Slider) quantize(x float64) float64 {
	x = core.Clamp(x, d.Min, d.Max)
	if d.Step > 0 {
		x = d.Min + math.Round((x-d.Min)/d.Step)*d.Step
		x = math.Min(x, d.Max)
	}
	return x
}

// AddSlider registers d. The binding must exist and hold a scalar or a
// cell; its current value is clamped into range and written back.
func (s *Session) AddSlider(d Slider) (float64, error) {
	if err := d.validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.eval.Env().Get(d.Name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", eval.ErrUnknownName, d.Name)
	}

	var cur float64
	switch v := v.(type) {
	case eval.Scalar:
		cur = float64(v)
	case eval.Cell:
		cur = v.C.Value()
	default:
		return 0, fmt.Errorf("%w: %s is a %s", ErrSlider, d.Name, v.Kind())
	}

	cur = d.quantize(cur)
	if err := s.eval.SetNumber(d.Name, cur); err != nil {
		return 0, err
	}
	s.sliders[d.Name] = &slider{def: d, value: cur}
	return cur, nil
}

// SetSlider moves a slider and updates its binding. It returns the value
// after clamping and quantizing.
func (s *Session) SetSlider(name string, x float64) (float64, error) {
	if !core.IsFinite(x) {
		return 0, fmt.Errorf("%w: %s value %g", ErrSlider, name, x)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.sliders[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoSlider, name)
	}

	x = sl.def.quantize(x)
	if err := s.eval.SetNumber(name, x); err != nil {
		return 0, err
	}
	sl.value = x
	return x, nil
}

// RemoveSlider unregisters a slider. The binding is kept.
func (s *Session) RemoveSlider(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sliders[name]
	delete(s.sliders, name)
	return ok
}

// Sliders returns the registered sliders in name order.
func (s *Session) Sliders() []SliderState {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SliderState, 0, len(s.sliders))
	for _, sl := range s.sliders {
		out = append(out, SliderState{Slider: sl.def, Value: sl.value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
