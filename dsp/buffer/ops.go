package buffer

import "github.com/cwbudde/algo-vecmath"

// Gain scales every channel in place.
func (w *Wave) Gain(g float64) {
	for _, ch := range w.channels {
		vecmath.ScaleBlock(ch, ch, g)
	}
}

// MixInto adds src into w sample by sample over the shorter length.
// Channels beyond the smaller channel count are left untouched.
func (w *Wave) MixInto(src *Wave) {
	n := min(len(w.channels), len(src.channels))
	for ch := range n {
		dst := w.channels[ch]
		s := src.channels[ch]
		m := min(len(dst), len(s))
		vecmath.AddBlockInPlace(dst[:m], s[:m])
	}
}

// Peak returns the largest absolute sample value across all channels.
func (w *Wave) Peak() float64 {
	var peak float64
	for _, ch := range w.channels {
		for _, x := range ch {
			if x < 0 {
				x = -x
			}
			if x > peak {
				peak = x
			}
		}
	}
	return peak
}
