package audio

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-livecode/dsp/ring"
)

// NewInputs returns n capture streams of the given capacity.
func NewInputs(n, capacity int) ([]*ring.Stream, error) {
	inputs := make([]*ring.Stream, n)
	for i := range inputs {
		s, err := ring.NewStream(capacity)
		if err != nil {
			return nil, fmt.Errorf("audio: input %d: %w", i, err)
		}
		inputs[i] = s
	}
	return inputs, nil
}

// Capture decodes interleaved float32 LE frames from r into inputs, one
// channel per stream, until r is exhausted or ctx is done. A trailing
// partial frame is discarded. Full streams drop samples and count them.
func Capture(ctx context.Context, r io.Reader, inputs []*ring.Stream) error {
	if len(inputs) == 0 {
		return nil
	}

	br := bufio.NewReader(r)
	frame := make([]byte, len(inputs)*BytesPerSample)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := io.ReadFull(br, frame); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return fmt.Errorf("audio: capture: %w", err)
		}

		for ch, s := range inputs {
			bits := binary.LittleEndian.Uint32(frame[ch*BytesPerSample:])
			s.Write(float64(math.Float32frombits(bits)))
		}
	}
}
