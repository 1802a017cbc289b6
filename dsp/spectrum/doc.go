// Package spectrum computes magnitude spectra of sample blocks.
//
// Frames are Hann windowed before the transform. The FFT comes from
// algo-fft and the element-wise math from algo-vecmath.
package spectrum
