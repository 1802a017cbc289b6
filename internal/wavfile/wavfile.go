// Package wavfile loads and saves buffer.Wave values as WAV files.
package wavfile

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-livecode/dsp/buffer"
	"github.com/cwbudde/algo-livecode/dsp/core"
	"github.com/cwbudde/algo-livecode/dsp/dither"
)

// BitDepth is the sample depth written by Save.
const BitDepth = 16

// ErrInvalid reports a file that is not a PCM WAV file.
var ErrInvalid = errors.New("wavfile: not a PCM WAV file")

// Load reads any PCM bit depth and normalizes samples to [-1, 1].
func Load(path string) (*buffer.Wave, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavfile: decode %s: %w", path, err)
	}

	depth := int(dec.SampleBitDepth())
	if depth == 0 || buf.Format == nil || buf.Format.NumChannels == 0 {
		return nil, fmt.Errorf("%w: %s: missing format", ErrInvalid, path)
	}

	scale := 1 / math.Pow(2, float64(depth-1))
	data := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		data[i] = float64(v) * scale
	}

	return buffer.FromInterleaved(float64(buf.Format.SampleRate), buf.Format.NumChannels, data)
}

// Save writes w as 16-bit PCM. Samples are clamped to [-1, 1]. Without
// options samples are rounded; dither options select added noise.
func Save(path string, w *buffer.Wave, opts ...dither.Option) error {
	if w.Channels() == 0 {
		return fmt.Errorf("wavfile: %s: no channels", path)
	}

	q, err := dither.NewQuantizer(BitDepth, opts...)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	sr := int(math.Round(w.SampleRate()))
	enc := wav.NewEncoder(f, sr, BitDepth, w.Channels(), 1)

	interleaved := w.Interleaved()
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: w.Channels(),
			SampleRate:  sr,
		},
		Data:           make([]int, len(interleaved)),
		SourceBitDepth: BitDepth,
	}
	for i, x := range interleaved {
		buf.Data[i] = q.Int(core.Clamp(core.Sanitize(x), -1, 1))
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("wavfile: encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wavfile: finish %s: %w", path, err)
	}
	return f.Close()
}
