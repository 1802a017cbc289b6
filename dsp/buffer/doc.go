// Package buffer provides Wave, the multichannel audio buffer bound to the
// audio-buffer domain of the interpreter. Waves are filled by offline
// rendering or by the WAV codec and read by wave-player units.
package buffer
