// Package ring provides bounded, lock-free single-producer/single-consumer
// queues for handing data between the control goroutine and the audio
// goroutine.
//
// Neither side ever blocks. Queue.TryPush reports false on a full queue and
// TryPop reports false on an empty one. Stream applies the real-time policy
// for sample streams on top of that: the writer drops samples when the queue
// is full and the reader substitutes silence when it is empty; both cases
// are counted.
package ring
