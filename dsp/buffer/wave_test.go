package buffer

import (
	"errors"
	"testing"
)

func TestNewWave(t *testing.T) {
	w, err := New(2, 480, 48000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if w.Channels() != 2 || w.Len() != 480 {
		t.Fatalf("shape = (%d, %d), want (2, 480)", w.Channels(), w.Len())
	}

	if w.Duration() != 0.01 {
		t.Fatalf("Duration() = %v, want 0.01", w.Duration())
	}

	for _, bad := range [][3]float64{{0, 1, 48000}, {1, -1, 48000}, {1, 1, 0}} {
		if _, err := New(int(bad[0]), int(bad[1]), bad[2]); err == nil {
			t.Errorf("New(%v) expected error", bad)
		}
	}
}

func TestFromChannelsMismatch(t *testing.T) {
	_, err := FromChannels(48000, []float64{1, 2}, []float64{1})
	if !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("err = %v, want ErrChannelMismatch", err)
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	data := []float64{1, -1, 2, -2, 3, -3}

	w, err := FromInterleaved(44100, 2, data)
	if err != nil {
		t.Fatalf("FromInterleaved: %v", err)
	}

	if w.At(0, 2) != 3 || w.At(1, 1) != -2 {
		t.Fatalf("unexpected samples: %v %v", w.Channel(0), w.Channel(1))
	}

	got := w.Interleaved()
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("Interleaved()[%d] = %v, want %v", i, got[i], data[i])
		}
	}
}

func TestAtSetOutOfRange(t *testing.T) {
	w, _ := New(1, 2, 100)
	w.Set(0, 5, 1)
	w.Set(3, 0, 1)

	if w.At(0, 5) != 0 || w.At(-1, 0) != 0 {
		t.Fatal("out-of-range access must read as silence")
	}
}

func TestAppendFrameAndCopy(t *testing.T) {
	w, _ := New(2, 0, 100)
	if err := w.AppendFrame([]float64{0.1, 0.2}); err != nil {
		t.Fatalf("AppendFrame: %v", err)
	}

	if err := w.AppendFrame([]float64{1}); !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("AppendFrame short frame err = %v", err)
	}

	c := w.Copy()
	c.Set(0, 0, 9)

	if w.At(0, 0) != 0.1 {
		t.Fatal("Copy must not alias the original")
	}
}
