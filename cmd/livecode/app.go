package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-livecode/dsp/core"
	"github.com/cwbudde/algo-livecode/dsp/ring"
	"github.com/cwbudde/algo-livecode/dsp/slot"
	"github.com/cwbudde/algo-livecode/internal/audio"
	"github.com/cwbudde/algo-livecode/internal/config"
	"github.com/cwbudde/algo-livecode/internal/eval"
	"github.com/cwbudde/algo-livecode/internal/logging"
	"github.com/cwbudde/algo-livecode/internal/midi"
	"github.com/cwbudde/algo-livecode/internal/session"
)

// app is the wired runtime shared by the subcommands.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	slot   *slot.Slot
	inputs []*ring.Stream
	eval   *eval.Evaluator
	sess   *session.Session
	device *audio.Device
	midi   *midi.Source
	cancel context.CancelFunc
}

// setup loads configuration, applies flag overrides and builds the
// runtime. The device opens only when withAudio is set and audio is
// enabled.
func setup(cmd *cobra.Command, withAudio bool) (*app, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path, flags.Changed("config"))
	if err != nil {
		return nil, err
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := flags.GetFloat64("sample-rate"); v > 0 {
		cfg.Audio.SampleRate = v
	}
	if v, _ := flags.GetBool("no-audio"); v {
		cfg.Audio.Disabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	a := &app{cfg: cfg, log: logging.New(level)}

	a.slot = slot.New(
		core.WithSampleRate(cfg.Audio.SampleRate),
		core.WithBlockSize(cfg.Audio.BlockSize),
		core.WithLimit(cfg.Audio.Limit),
	)

	if cfg.Audio.Inputs > 0 {
		a.inputs, err = audio.NewInputs(cfg.Audio.Inputs, cfg.Audio.InputBuffer)
		if err != nil {
			return nil, err
		}
	}

	a.eval = eval.New(
		eval.WithLogger(a.log),
		eval.WithSlot(a.slot),
		eval.WithInputs(a.inputs),
		eval.WithFade(cfg.FadeShape(), cfg.Fade.Seconds),
		eval.WithQueue(cfg.Queue.Capacity),
	)
	a.sess = session.New(a.eval, session.WithLogger(a.log))

	if err := a.start(cmd, withAudio && !cfg.Audio.Disabled); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) start(cmd *cobra.Command, withAudio bool) error {
	if withAudio {
		dev, err := audio.Open(audio.Config{
			SampleRate: a.cfg.Audio.SampleRate,
			Channels:   a.cfg.Audio.Channels,
			BlockSize:  a.cfg.Audio.BlockSize,
		}, a.slot, a.log)
		if err != nil {
			return err
		}
		a.device = dev
	}

	if err := a.startCapture(cmd); err != nil {
		return err
	}

	if a.cfg.Audio.MIDI != "" {
		src, err := midi.Open(a.cfg.Audio.MIDI, midi.WithLogger(a.log))
		if err != nil {
			return err
		}
		a.midi = src
		a.eval.Env().Set("midi", eval.Source{S: src})
	}

	if a.cfg.Prelude != "" {
		if err := a.runFile(io.Discard, a.cfg.Prelude); err != nil {
			return fmt.Errorf("prelude: %w", err)
		}
	}

	for _, d := range a.cfg.Sliders {
		if _, err := a.sess.AddSlider(d); err != nil {
			return fmt.Errorf("slider %s: %w", d.Name, err)
		}
	}
	return nil
}

func (a *app) startCapture(cmd *cobra.Command) error {
	src, _ := cmd.Flags().GetString("capture")
	if src == "" || len(a.inputs) == 0 {
		return nil
	}

	var r io.ReadCloser = os.Stdin
	if src != "-" {
		f, err := os.Open(src)
		if err != nil {
			return fmt.Errorf("capture: %w", err)
		}
		r = f
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go func() {
		defer r.Close()
		if err := audio.Capture(ctx, r, a.inputs); err != nil && ctx.Err() == nil {
			a.log.Warn("capture stopped", "error", err)
		}
	}()
	return nil
}

// runFile submits a whole script and prints its outcomes to w.
func (a *app) runFile(w io.Writer, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	res, err := a.sess.Submit(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if res.Incomplete {
		a.sess.Discard()
		return fmt.Errorf("%s: unexpected end of input", path)
	}

	for _, o := range res.Outcomes {
		if o.Text != "" {
			fmt.Fprintln(w, o.Text)
		}
		if o.Err != nil {
			fmt.Fprintf(w, "%s: error: %v\n", path, o.Err)
		}
	}
	return nil
}

func (a *app) close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.device != nil {
		if err := a.slot.Stop(a.cfg.Fade.Seconds); err == nil {
			time.Sleep(time.Duration(a.cfg.Fade.Seconds * float64(time.Second)))
		}
		_ = a.device.Close()
	}
	a.slot.Close()
	if a.midi != nil {
		_ = a.midi.Close()
	}
	if err := a.sess.Close(); err != nil {
		a.log.Warn("close session", "error", err)
	}
}
