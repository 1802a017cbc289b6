// Package lang parses live-coding scripts into statement trees.
//
// The syntax is a small expression language with Rust-like precedence:
//
//	let osc = sine_hz(220.0) >> lowpass_hz(800.0, 0.7);
//	slot.set(Fade::Smooth, 0.5, osc * 0.2);
//	for i in 0..4 { seq.push_duration(i, 0.5, Fade::Power, 0.05, 0.05, osc); }
//
// Parse returns a *Program or an *Error carrying the position of the
// failure. Input that stops in the middle of a construct (an open brace, a
// dangling operator, an unterminated string) yields an error matching
// ErrIncomplete so interactive callers can keep reading lines.
package lang
