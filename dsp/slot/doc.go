// Package slot implements the hand-off point between the control goroutine
// and the audio callback.
//
// A Slot plays exactly one unit. Set prepares a transition to a new unit on
// the calling goroutine and publishes it with a single atomic pointer swap;
// the audio goroutine picks it up on its next frame and blends from
// whatever is audible into the new unit. No lock is ever taken on the audio
// side.
package slot
