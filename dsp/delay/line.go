package delay

import (
	"fmt"
	"math"
)

// Line is a circular delay line of fixed capacity.
type Line struct {
	buf []float64
	pos int
}

// New returns a delay line holding up to size samples of history.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay: size must be > 0: %d", size)
	}
	return &Line{buf: make([]float64, size)}, nil
}

// ForSeconds sizes a line for the given maximum delay time.
func ForSeconds(seconds, sampleRate float64) (*Line, error) {
	if seconds < 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("delay: invalid time %g at rate %g", seconds, sampleRate)
	}
	return New(int(math.Ceil(seconds*sampleRate)) + 2)
}

// Len returns the capacity in samples.
func (d *Line) Len() int {
	return len(d.buf)
}

// Write pushes one sample.
func (d *Line) Write(x float64) {
	d.buf[d.pos] = x
	d.pos++
	if d.pos == len(d.buf) {
		d.pos = 0
	}
}

// Read returns the sample written n writes ago; Read(1) is the newest.
// n is clamped to [1, Len()].
func (d *Line) Read(n int) float64 {
	size := len(d.buf)
	n = min(max(n, 1), size)
	return d.buf[(d.pos-n+size)%size]
}

// ReadLinear reads a fractional delay with linear interpolation.
func (d *Line) ReadLinear(n float64) float64 {
	n = math.Min(math.Max(n, 1), float64(len(d.buf)-1))
	i := int(n)
	frac := n - float64(i)
	a := d.Read(i)
	b := d.Read(i + 1)
	return a + (b-a)*frac
}

// Process writes x and returns the input from n samples ago. Process(x, 0)
// returns x.
func (d *Line) Process(x, n float64) float64 {
	d.Write(x)
	return d.ReadLinear(n + 1)
}

// Reset clears the history.
func (d *Line) Reset() {
	clear(d.buf)
	d.pos = 0
}
