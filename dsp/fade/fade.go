// Package fade defines the crossfade curves used by node crossfades, Slot
// transitions and sequencer event envelopes.
//
// Two shapes are provided:
//
//   - Smooth: linear equal-gain, out = 1-x, in = x. The gains always sum to 1,
//     which is transparent for correlated material (the same signal on both
//     sides of the transition).
//   - Power: equal-power, out = cos(x·π/2), in = sin(x·π/2). The squared
//     gains always sum to 1, which keeps loudness constant for uncorrelated
//     material.
package fade

import (
	"fmt"
	"math"
	"strings"
)

// Shape selects a crossfade curve.
type Shape int

const (
	// Smooth is the linear equal-gain curve.
	Smooth Shape = iota
	// Power is the equal-power (sine/cosine) curve.
	Power
)

// String returns the script name of the shape.
func (s Shape) String() string {
	switch s {
	case Smooth:
		return "Smooth"
	case Power:
		return "Power"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Parse resolves a shape name. "linear" is accepted as an alias of Smooth.
// Matching is case-insensitive.
func Parse(name string) (Shape, bool) {
	switch strings.ToLower(name) {
	case "smooth", "linear":
		return Smooth, true
	case "power":
		return Power, true
	default:
		return Smooth, false
	}
}

// Curve returns the incoming gain at normalized position x in [0, 1].
// Values outside the range are clamped.
func (s Shape) Curve(x float64) float64 {
	x = clamp01(x)
	if s == Power {
		return math.Sin(x * math.Pi / 2)
	}

	return x
}

// Gains returns the (outgoing, incoming) gain pair at position x in [0, 1].
func (s Shape) Gains(x float64) (out, in float64) {
	x = clamp01(x)
	if s == Power {
		return math.Cos(x * math.Pi / 2), math.Sin(x * math.Pi / 2)
	}

	return 1 - x, x
}

// Envelope returns the gain of an event at local time t (seconds since the
// event started) for an event lasting duration seconds, ramping up over
// fadeIn and down over the final fadeOut seconds. Zero-length fades are
// steps. Outside [0, duration) the gain is 0.
func (s Shape) Envelope(t, duration, fadeIn, fadeOut float64) float64 {
	if t < 0 || t >= duration {
		return 0
	}

	gain := 1.0
	if fadeIn > 0 && t < fadeIn {
		gain = s.Curve(t / fadeIn)
	}

	if remaining := duration - t; fadeOut > 0 && remaining < fadeOut {
		gain *= s.Curve(remaining / fadeOut)
	}

	return gain
}

func clamp01(x float64) float64 {
	switch {
	case x < 0 || math.IsNaN(x):
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
