// Package delay provides a circular delay line used by the delay leaf and
// by feedback loops that need more than one sample of latency.
package delay
