package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// BytesPerSample is the size of one float32 sample.
const BytesPerSample = 4

// ErrFormat reports an unsupported channel count or block size.
var ErrFormat = errors.New("audio: unsupported format")

// Renderer produces stereo blocks. *slot.Slot satisfies it.
type Renderer interface {
	Process(left, right []float64)
}

// Stream is an io.Reader of interleaved float32 LE frames rendered from a
// Renderer one block at a time. Read is called by a single goroutine.
type Stream struct {
	r        Renderer
	channels int

	left, right []float64
	pcm         []byte
	pos         int

	blocks atomic.Uint64
}

// NewStream returns a Stream rendering blockSize frames per block for one or
// two channels. Mono output averages left and right.
func NewStream(r Renderer, channels, blockSize int) (*Stream, error) {
	if channels < 1 || channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrFormat, channels)
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: block size %d", ErrFormat, blockSize)
	}

	s := &Stream{
		r:        r,
		channels: channels,
		left:     make([]float64, blockSize),
		right:    make([]float64, blockSize),
		pcm:      make([]byte, blockSize*channels*BytesPerSample),
	}
	s.pos = len(s.pcm)
	return s, nil
}

// Channels returns the interleaved channel count.
func (s *Stream) Channels() int { return s.channels }

// Blocks returns the number of blocks rendered so far.
func (s *Stream) Blocks() uint64 { return s.blocks.Load() }

// Read fills p with PCM, rendering new blocks as needed. It never fails and
// never returns io.EOF.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if s.pos == len(s.pcm) {
			s.render()
		}
		c := copy(p[n:], s.pcm[s.pos:])
		s.pos += c
		n += c
	}
	return n, nil
}

func (s *Stream) render() {
	s.r.Process(s.left, s.right)

	off := 0
	for i := range s.left {
		if s.channels == 1 {
			off = put(s.pcm, off, 0.5*(s.left[i]+s.right[i]))
			continue
		}
		off = put(s.pcm, off, s.left[i])
		off = put(s.pcm, off, s.right[i])
	}

	s.pos = 0
	s.blocks.Add(1)
}

func put(buf []byte, off int, x float64) int {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(x)))
	return off + BytesPerSample
}
