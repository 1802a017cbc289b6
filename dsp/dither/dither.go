// Package dither quantizes normalized samples to integer PCM with optional
// dither noise.
package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Kind selects the probability distribution of the dither noise.
type Kind int

const (
	// None rounds to the nearest step.
	None Kind = iota
	// Rectangular adds uniform noise of one step peak to peak.
	Rectangular
	// Triangular adds the sum of two uniform draws (TPDF).
	Triangular

	kindCount
)

var kindNames = [kindCount]string{"none", "rectangular", "triangular"}

// String returns the lower-case name of k.
func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// ParseKind accepts the names returned by String, case-insensitively, and
// "tpdf" for Triangular.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return None, true
	case "rectangular", "rpdf":
		return Rectangular, true
	case "triangular", "tpdf":
		return Triangular, true
	default:
		return None, false
	}
}

const (
	minBits = 2
	maxBits = 32
)

// Option configures a Quantizer.
type Option func(*Quantizer) error

// WithKind sets the dither distribution. The default is None.
func WithKind(k Kind) Option {
	return func(q *Quantizer) error {
		if !k.Valid() {
			return fmt.Errorf("dither: invalid kind %d", int(k))
		}
		q.kind = k
		return nil
	}
}

// WithAmplitude scales the dither noise, in steps. The default is 1.
func WithAmplitude(amp float64) Option {
	return func(q *Quantizer) error {
		if amp < 0 || math.IsNaN(amp) || math.IsInf(amp, 0) {
			return fmt.Errorf("dither: amplitude must be >= 0 and finite: %g", amp)
		}
		q.amp = amp
		return nil
	}
}

// WithSeed makes the noise sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(q *Quantizer) error {
		q.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		return nil
	}
}

// Quantizer maps [-1, 1] onto signed integers of a fixed bit depth.
// It is not safe for concurrent use.
type Quantizer struct {
	bits int
	kind Kind
	amp  float64
	rng  *rand.Rand

	scale  float64
	lo, hi int
}

// NewQuantizer returns a Quantizer for bits in [2, 32].
func NewQuantizer(bits int, opts ...Option) (*Quantizer, error) {
	if bits < minBits || bits > maxBits {
		return nil, fmt.Errorf("dither: bit depth must be in [%d, %d]: %d", minBits, maxBits, bits)
	}

	q := &Quantizer{bits: bits, amp: 1}
	for _, opt := range opts {
		if err := opt(q); err != nil {
			return nil, err
		}
	}
	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	q.scale = math.Exp2(float64(bits-1)) - 1
	q.hi = int(q.scale)
	q.lo = -q.hi - 1
	return q, nil
}

// Bits returns the target bit depth.
func (q *Quantizer) Bits() int { return q.bits }

// Kind returns the dither distribution.
func (q *Quantizer) Kind() Kind { return q.kind }

// Int quantizes x. Non-finite input yields 0; the result is limited to the
// bit-depth range.
func (q *Quantizer) Int(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}

	v := math.Round(x*q.scale + q.noise())
	return int(max(float64(q.lo), min(float64(q.hi), v)))
}

// Sample quantizes x and maps it back to [-1, 1].
func (q *Quantizer) Sample(x float64) float64 {
	return float64(q.Int(x)) / q.scale
}

// Ints quantizes src into dst, which must be at least as long.
func (q *Quantizer) Ints(dst []int, src []float64) {
	for i, x := range src {
		dst[i] = q.Int(x)
	}
}

func (q *Quantizer) noise() float64 {
	switch q.kind {
	case Rectangular:
		return q.amp * (q.rng.Float64() - 0.5)
	case Triangular:
		return q.amp * (q.rng.Float64() - q.rng.Float64())
	default:
		return 0
	}
}
