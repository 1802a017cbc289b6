package unit

import (
	"fmt"

	"github.com/cwbudde/algo-livecode/dsp/graph"
)

type stage uint8

const (
	stageIdle stage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// ADSR is a linear envelope driven by a gate input: a rising gate above 0.5
// starts the attack, a falling gate starts the release.
type ADSR struct {
	attack, decay, sustain, release float64
	sr                              float64

	stage stage
	level float64
	gate  bool
	start float64 // level when the release started
}

// NewADSR returns an envelope with times in seconds and a sustain level.
func NewADSR(attack, decay, sustain, release float64) (*ADSR, error) {
	if attack < 0 || decay < 0 || release < 0 || sustain < 0 || sustain > 1 {
		return nil, fmt.Errorf("%w: adsr(%g, %g, %g, %g)", ErrArgs, attack, decay, sustain, release)
	}
	return &ADSR{attack: attack, decay: decay, sustain: sustain, release: release, sr: graph.DefaultSampleRate}, nil
}

func (e *ADSR) Inputs() int  { return 1 }
func (e *ADSR) Outputs() int { return 1 }

func (e *ADSR) Tick(in, out []float64) {
	gate := in[0] > 0.5
	switch {
	case gate && !e.gate:
		e.stage = stageAttack
	case !gate && e.gate:
		e.stage = stageRelease
		e.start = e.level
	}
	e.gate = gate

	switch e.stage {
	case stageAttack:
		e.level += e.step(e.attack, 1)
		if e.level >= 1 {
			e.level = 1
			e.stage = stageDecay
		}
	case stageDecay:
		e.level -= e.step(e.decay, 1-e.sustain)
		if e.level <= e.sustain {
			e.level = e.sustain
			e.stage = stageSustain
		}
	case stageRelease:
		e.level -= e.step(e.release, e.start)
		if e.level <= 0 {
			e.level = 0
			e.stage = stageIdle
		}
	}

	out[0] = e.level
}

// step returns the per-sample increment covering span over seconds.
func (e *ADSR) step(seconds, span float64) float64 {
	if seconds <= 0 {
		return span + 1
	}
	return span / (seconds * e.sr)
}

func (e *ADSR) Reset() {
	e.stage, e.level, e.gate, e.start = stageIdle, 0, false, 0
}

func (e *ADSR) SetSampleRate(sr float64) {
	if sr > 0 {
		e.sr = sr
	}
}

func (e *ADSR) Clone() graph.Unit {
	c := *e
	return &c
}
