// Package core holds the processing configuration shared by every real-time
// component (sample rate, block size, channel layout, output limit) and the
// small numeric helpers used on the audio path.
package core
