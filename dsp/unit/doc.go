// Package unit provides the leaf units scripts build graphs from and the
// Registry that constructs them by name.
//
// Leaves are deliberately small: oscillators, noise, biquad filters, a
// delay line, constants, routing helpers, an ADSR envelope, shared-cell
// readers, buffer playback and capture input. Each has a fixed arity known
// from its name and arguments.
package unit
