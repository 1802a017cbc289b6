package audio

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hajimehoshi/oto/v2"
)

// Config describes the output device.
type Config struct {
	SampleRate float64
	Channels   int
	BlockSize  int
}

// Device plays a Renderer through the default output device.
type Device struct {
	ctx    *oto.Context
	player oto.Player
	stream *Stream
	log    *slog.Logger
}

// Open starts playback of r. It blocks until the device is ready.
func Open(cfg Config, r Renderer, logger *slog.Logger) (*Device, error) {
	stream, err := NewStream(r, cfg.Channels, cfg.BlockSize)
	if err != nil {
		return nil, err
	}

	sr := int(math.Round(cfg.SampleRate))
	ctx, ready, err := oto.NewContext(sr, cfg.Channels, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("audio: open device: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(stream)
	player.Play()

	logger.Info("audio device open",
		"sample_rate", sr,
		"channels", cfg.Channels,
		"block_size", cfg.BlockSize,
	)

	return &Device{ctx: ctx, player: player, stream: stream, log: logger}, nil
}

// Blocks returns the number of blocks the device has pulled.
func (d *Device) Blocks() uint64 { return d.stream.Blocks() }

// Err reports a playback error, if any.
func (d *Device) Err() error { return d.player.Err() }

// Close stops playback.
func (d *Device) Close() error {
	d.player.Pause()
	err := d.player.Close()
	if err != nil {
		d.log.Warn("audio device close", "error", err)
	}
	return err
}
