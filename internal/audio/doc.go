// Package audio connects a Slot to the sound card.
//
// Stream turns Slot blocks into interleaved float32 little-endian PCM, the
// format the oto player consumes. Device owns the oto context and player.
// Capture decodes PCM from any reader into per-channel ring streams read by
// the input(ch) leaf.
package audio
