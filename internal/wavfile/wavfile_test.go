package wavfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-livecode/dsp/buffer"
	"github.com/cwbudde/algo-livecode/dsp/dither"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")

	w, err := buffer.FromChannels(8000,
		[]float64{0, 0.5, -0.5, 1, 2},
		[]float64{0.25, -0.25, 0, -1, -3},
	)
	require.NoError(t, err)
	require.NoError(t, Save(path, w))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Channels())
	assert.Equal(t, 5, got.Len())
	assert.Equal(t, 8000.0, got.SampleRate())

	// 16-bit quantization, and out-of-range samples clamp.
	want := [][]float64{{0, 0.5, -0.5, 1, 1}, {0.25, -0.25, 0, -1, -1}}
	for ch := range want {
		for i, x := range want[ch] {
			assert.InDelta(t, x, got.At(ch, i), 1.0/32000, "ch %d frame %d", ch, i)
		}
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not RIFF data"), 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveWithDither(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dither.wav")

	src := make([]float64, 256)
	for i := range src {
		src[i] = 0.3
	}
	w, err := buffer.FromChannels(8000, src)
	require.NoError(t, err)
	require.NoError(t, Save(path, w, dither.WithKind(dither.Triangular), dither.WithSeed(3)))

	got, err := Load(path)
	require.NoError(t, err)
	for i := range got.Len() {
		assert.InDelta(t, 0.3, got.At(0, i), 2.0/32768, "frame %d", i)
	}

	require.Error(t, Save(path, w, dither.WithAmplitude(-1)))
}
