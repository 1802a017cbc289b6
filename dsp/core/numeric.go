package core

import "math"

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// Sanitize maps NaN and ±Inf to zero and leaves finite values untouched.
func Sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}

	return x
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FlushDenormals converts tiny denormal-like values to exact zero. Feedback
// state and biquad delay registers pass through it.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// MIDIToHz converts a (fractional) MIDI note number to frequency, A4 = 69 = 440 Hz.
func MIDIToHz(note float64) float64 {
	return 440 * math.Pow(2, (note-69)/12)
}

// HzToMIDI converts a frequency to a fractional MIDI note number.
// Returns NaN for non-positive frequencies.
func HzToMIDI(hz float64) float64 {
	if hz <= 0 {
		return math.NaN()
	}

	return 69 + 12*math.Log2(hz/440)
}
