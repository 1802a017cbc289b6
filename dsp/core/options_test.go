package core

import "testing"

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(96000), WithBlockSize(256), WithChannels(1), WithLimit(0.5))
	if cfg.SampleRate != 96000 || cfg.BlockSize != 256 || cfg.Channels != 1 || cfg.Limit != 0.5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestApplyProcessorOptionsIgnoresInvalid(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(-1), WithBlockSize(0), WithChannels(-2), WithLimit(0), nil)
	if cfg != DefaultProcessorConfig() {
		t.Fatalf("invalid options changed config: %+v", cfg)
	}
}
