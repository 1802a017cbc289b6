// Package midi turns MIDI input into shared control values.
//
// A Source tracks the most recent held note (last-note priority), its
// velocity, a gate and all 128 controllers in lock-free cells. Graph units
// obtained from a Source read those cells every sample, so playing the
// keyboard never requires a graph swap.
//
// Hardware ports come from whichever gomidi driver the binary registers;
// cmd/livecode links rtmididrv. NewVirtual creates a source fed only by
// NoteOn, NoteOff and Control calls.
package midi
