package ring

import "sync/atomic"

// Stream is a bounded sample stream between a producer and a consumer that
// may run on the real-time goroutine.
type Stream struct {
	q *Queue[float64]

	dropped   atomic.Uint64
	underruns atomic.Uint64
}

// NewStream returns a stream holding at least capacity samples.
func NewStream(capacity int) (*Stream, error) {
	q, err := NewQueue[float64](capacity)
	if err != nil {
		return nil, err
	}

	return &Stream{q: q}, nil
}

// Write pushes one sample. On a full stream the sample is dropped.
func (s *Stream) Write(x float64) {
	if !s.q.TryPush(x) {
		s.dropped.Add(1)
	}
}

// WriteBlock pushes a block of samples, dropping whatever does not fit.
// It returns the number of samples accepted.
func (s *Stream) WriteBlock(block []float64) int {
	for i, x := range block {
		if !s.q.TryPush(x) {
			s.dropped.Add(uint64(len(block) - i))
			return i
		}
	}

	return len(block)
}

// Read pops one sample. On an empty stream it returns silence.
func (s *Stream) Read() float64 {
	x, ok := s.q.TryPop()
	if !ok {
		s.underruns.Add(1)
		return 0
	}

	return x
}

// Buffered returns a snapshot of the number of queued samples.
func (s *Stream) Buffered() int {
	return s.q.Len()
}

// Dropped returns how many samples the writer discarded on a full stream.
func (s *Stream) Dropped() uint64 {
	return s.dropped.Load()
}

// Underruns returns how many reads found the stream empty.
func (s *Stream) Underruns() uint64 {
	return s.underruns.Load()
}
