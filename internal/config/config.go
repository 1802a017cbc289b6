// Package config loads the livecode YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-livecode/dsp/fade"
	"github.com/cwbudde/algo-livecode/internal/logging"
	"github.com/cwbudde/algo-livecode/internal/session"
)

// DefaultPath is the file read when no path is given.
const DefaultPath = "livecode.yaml"

// ErrInvalid reports a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid")

// Audio configures the output device and capture.
type Audio struct {
	SampleRate float64 `yaml:"sample_rate"`
	Channels   int     `yaml:"channels"`
	BlockSize  int     `yaml:"block_size"`
	Limit      float64 `yaml:"limit"`
	Inputs     int     `yaml:"inputs"`
	// Capacity of each capture stream, in samples.
	InputBuffer int    `yaml:"input_buffer"`
	Disabled    bool   `yaml:"disabled"`
	MIDI        string `yaml:"midi"`
}

// Fade is the default transition for g.play() and slot.stop().
type Fade struct {
	Shape   string  `yaml:"shape"`
	Seconds float64 `yaml:"seconds"`
}

// Queue sizes the bounded control-to-audio queues.
type Queue struct {
	Capacity int `yaml:"capacity"`
}

// Server configures the HTTP control surface.
type Server struct {
	Addr string `yaml:"addr"`
}

// Log configures logging.
type Log struct {
	Level string `yaml:"level"`
}

// Config is the root document.
type Config struct {
	Audio   Audio            `yaml:"audio"`
	Fade    Fade             `yaml:"fade"`
	Queue   Queue            `yaml:"queue"`
	Server  Server           `yaml:"server"`
	Log     Log              `yaml:"log"`
	Sliders []session.Slider `yaml:"sliders"`
	// Prelude is a script run before the first prompt.
	Prelude string `yaml:"prelude"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Audio: Audio{
			SampleRate:  48000,
			Channels:    2,
			BlockSize:   1024,
			Limit:       1,
			InputBuffer: 8192,
		},
		Fade:   Fade{Shape: "smooth", Seconds: 0.1},
		Queue:  Queue{Capacity: 1024},
		Server: Server{Addr: ":7711"},
		Log:    Log{Level: "info"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults
// unless required is set.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	var errs []error
	a := c.Audio
	if !(a.SampleRate > 0) {
		errs = append(errs, fmt.Errorf("%w: audio.sample_rate %g", ErrInvalid, a.SampleRate))
	}
	if a.Channels < 1 || a.Channels > 2 {
		errs = append(errs, fmt.Errorf("%w: audio.channels %d (1 or 2)", ErrInvalid, a.Channels))
	}
	if a.BlockSize < 1 {
		errs = append(errs, fmt.Errorf("%w: audio.block_size %d", ErrInvalid, a.BlockSize))
	}
	if !(a.Limit > 0) {
		errs = append(errs, fmt.Errorf("%w: audio.limit %g", ErrInvalid, a.Limit))
	}
	if a.Inputs < 0 {
		errs = append(errs, fmt.Errorf("%w: audio.inputs %d", ErrInvalid, a.Inputs))
	}
	if a.Inputs > 0 && a.InputBuffer < 1 {
		errs = append(errs, fmt.Errorf("%w: audio.input_buffer %d", ErrInvalid, a.InputBuffer))
	}
	if _, ok := fade.Parse(c.Fade.Shape); !ok {
		errs = append(errs, fmt.Errorf("%w: fade.shape %q", ErrInvalid, c.Fade.Shape))
	}
	if c.Fade.Seconds < 0 {
		errs = append(errs, fmt.Errorf("%w: fade.seconds %g", ErrInvalid, c.Fade.Seconds))
	}
	if c.Queue.Capacity < 1 {
		errs = append(errs, fmt.Errorf("%w: queue.capacity %d", ErrInvalid, c.Queue.Capacity))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: log.level: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// FadeShape returns the parsed default fade shape.
func (c Config) FadeShape() fade.Shape {
	s, _ := fade.Parse(c.Fade.Shape)
	return s
}
