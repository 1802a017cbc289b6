package graph

import "errors"

// DefaultSampleRate is used until SetSampleRate is called.
const DefaultSampleRate = 48000.0

var (
	// ErrArity reports mismatched input or output counts.
	ErrArity = errors.New("graph: arity mismatch")
	// ErrInvalidHandle reports a stale or foreign NodeHandle.
	ErrInvalidHandle = errors.New("graph: invalid node handle")
	// ErrPort reports a port index out of range.
	ErrPort = errors.New("graph: port out of range")
	// ErrCycle reports an edge that would close a loop outside a feedback wrapper.
	ErrCycle = errors.New("graph: connection would create a cycle")
	// ErrBackendBusy reports that the live backend could not accept an update.
	ErrBackendBusy = errors.New("graph: backend queue full")
)

// Unit is a processing node with fixed arity.
//
// Tick computes one frame: len(in) == Inputs() and len(out) == Outputs().
// Tick must not retain or modify in and must not allocate.
type Unit interface {
	Inputs() int
	Outputs() int
	Tick(in, out []float64)
	Reset()
	SetSampleRate(sampleRate float64)
	Clone() Unit
}

// Live is implemented by units that may be or wrap a live backend. A live
// backend has exactly one audible instance: Clone returns it unchanged and
// it must only be ticked by the audio goroutine.
type Live interface {
	IsLive() bool
}

// IsLive reports whether u is or wraps a live backend.
func IsLive(u Unit) bool {
	if l, ok := u.(Live); ok {
		return l.IsLive()
	}
	return false
}

// Rated is implemented by units that report the rate they run at.
type Rated interface {
	SampleRate() float64
}

// rateOf returns the rate of the first operand that reports one.
func rateOf(units ...Unit) float64 {
	for _, u := range units {
		if r, ok := u.(Rated); ok && r.SampleRate() > 0 {
			return r.SampleRate()
		}
	}
	return DefaultSampleRate
}

// LiveUnits returns the live backends u is or wraps. Two units that share
// one must not both be ticked for the same frame.
func LiveUnits(u Unit) []Unit {
	return appendLive(nil, u)
}

func appendLive(dst []Unit, u Unit) []Unit {
	if u == nil || !IsLive(u) {
		return dst
	}
	switch u := u.(type) {
	case *Graph:
		for i := range u.nodes {
			if u.nodes[i].live {
				dst = appendLive(dst, u.nodes[i].unit)
			}
		}
	case *Blend:
		dst = appendLive(dst, u.target)
		dst = appendLive(dst, u.old)
	case *Feedback:
		dst = appendLive(dst, u.inner)
	default:
		dst = append(dst, u)
	}
	return dst
}
