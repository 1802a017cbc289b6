package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-livecode/dsp/fade"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "livecode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":7711", cfg.Server.Addr)
	assert.Equal(t, fade.Smooth, cfg.FadeShape())
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(path, true)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
audio:
  sample_rate: 44100
  inputs: 1
fade:
  shape: power
  seconds: 0.5
log:
  level: debug
sliders:
  - name: cutoff
    min: 20
    max: 2000
    step: 1
prelude: boot.lc
`)

	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.InDelta(t, 44100, cfg.Audio.SampleRate, 0)
	assert.Equal(t, 2, cfg.Audio.Channels, "unset keys keep their defaults")
	assert.Equal(t, 1, cfg.Audio.Inputs)
	assert.Equal(t, fade.Power, cfg.FadeShape())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "boot.lc", cfg.Prelude)
	require.Len(t, cfg.Sliders, 1)
	assert.Equal(t, "cutoff", cfg.Sliders[0].Name)
	assert.InDelta(t, 2000, cfg.Sliders[0].Max, 0)
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"rate", func(c *Config) { c.Audio.SampleRate = 0 }},
		{"channels", func(c *Config) { c.Audio.Channels = 3 }},
		{"block", func(c *Config) { c.Audio.BlockSize = 0 }},
		{"limit", func(c *Config) { c.Audio.Limit = -1 }},
		{"inputs", func(c *Config) { c.Audio.Inputs = -1 }},
		{"shape", func(c *Config) { c.Fade.Shape = "cubic" }},
		{"fade", func(c *Config) { c.Fade.Seconds = -1 }},
		{"queue", func(c *Config) { c.Queue.Capacity = 0 }},
		{"level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	t.Parallel()

	_, err := Load(writeFile(t, "audio: [1, 2"), true)
	require.Error(t, err)

	_, err = Load(writeFile(t, "audio:\n  sample_rate: -5\n"), true)
	require.ErrorIs(t, err, ErrInvalid)
}
