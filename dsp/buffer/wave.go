package buffer

import (
	"errors"
	"fmt"
)

// ErrChannelMismatch is returned when per-channel slices disagree in length.
var ErrChannelMismatch = errors.New("buffer: channel length mismatch")

// Wave is a multichannel buffer of float64 samples at a fixed sample rate.
// Channels are stored non-interleaved.
type Wave struct {
	sampleRate float64
	channels   [][]float64
}

// New returns a silent Wave with the given channel count and frame length.
func New(channels, frames int, sampleRate float64) (*Wave, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("buffer: channels must be > 0: %d", channels)
	}
	if frames < 0 {
		return nil, fmt.Errorf("buffer: frames must be >= 0: %d", frames)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("buffer: sample rate must be > 0: %f", sampleRate)
	}

	data := make([][]float64, channels)
	for i := range data {
		data[i] = make([]float64, frames)
	}

	return &Wave{sampleRate: sampleRate, channels: data}, nil
}

// FromChannels wraps existing channel slices without copying.
func FromChannels(sampleRate float64, channels ...[]float64) (*Wave, error) {
	if len(channels) == 0 {
		return nil, errors.New("buffer: no channels")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("buffer: sample rate must be > 0: %f", sampleRate)
	}
	for _, ch := range channels[1:] {
		if len(ch) != len(channels[0]) {
			return nil, ErrChannelMismatch
		}
	}

	return &Wave{sampleRate: sampleRate, channels: channels}, nil
}

// FromInterleaved de-interleaves frames of numChannels samples.
func FromInterleaved(sampleRate float64, numChannels int, data []float64) (*Wave, error) {
	if numChannels <= 0 {
		return nil, fmt.Errorf("buffer: channels must be > 0: %d", numChannels)
	}
	frames := len(data) / numChannels

	w, err := New(numChannels, frames, sampleRate)
	if err != nil {
		return nil, err
	}

	for i := range frames {
		for ch := range numChannels {
			w.channels[ch][i] = data[i*numChannels+ch]
		}
	}

	return w, nil
}

// SampleRate returns the sample rate in Hz.
func (w *Wave) SampleRate() float64 {
	return w.sampleRate
}

// Channels returns the channel count.
func (w *Wave) Channels() int {
	return len(w.channels)
}

// Len returns the length in frames.
func (w *Wave) Len() int {
	if len(w.channels) == 0 {
		return 0
	}
	return len(w.channels[0])
}

// Duration returns the length in seconds.
func (w *Wave) Duration() float64 {
	return float64(w.Len()) / w.sampleRate
}

// Channel returns the samples of channel ch. The slice aliases the Wave.
func (w *Wave) Channel(ch int) []float64 {
	if ch < 0 || ch >= len(w.channels) {
		return nil
	}
	return w.channels[ch]
}

// At returns sample i of channel ch, or 0 when out of range.
func (w *Wave) At(ch, i int) float64 {
	if ch < 0 || ch >= len(w.channels) || i < 0 || i >= len(w.channels[ch]) {
		return 0
	}
	return w.channels[ch][i]
}

// Set stores sample i of channel ch, ignoring out-of-range positions.
func (w *Wave) Set(ch, i int, x float64) {
	if ch < 0 || ch >= len(w.channels) || i < 0 || i >= len(w.channels[ch]) {
		return
	}
	w.channels[ch][i] = x
}

// AppendFrame grows the Wave by one frame. frame must hold one sample per channel.
func (w *Wave) AppendFrame(frame []float64) error {
	if len(frame) != len(w.channels) {
		return ErrChannelMismatch
	}
	for ch, x := range frame {
		w.channels[ch] = append(w.channels[ch], x)
	}
	return nil
}

// Interleaved returns the frames as one interleaved slice.
func (w *Wave) Interleaved() []float64 {
	n := len(w.channels)
	out := make([]float64, w.Len()*n)
	for ch, data := range w.channels {
		for i, x := range data {
			out[i*n+ch] = x
		}
	}
	return out
}

// Copy returns a deep copy of the Wave.
func (w *Wave) Copy() *Wave {
	data := make([][]float64, len(w.channels))
	for i, ch := range w.channels {
		data[i] = append([]float64(nil), ch...)
	}
	return &Wave{sampleRate: w.sampleRate, channels: data}
}

// String describes the Wave for transcripts.
func (w *Wave) String() string {
	return fmt.Sprintf("wave(channels=%d, frames=%d, rate=%g)", w.Channels(), w.Len(), w.sampleRate)
}
