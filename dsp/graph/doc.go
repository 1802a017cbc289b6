// Package graph implements the audio graph: the Unit contract every
// processing node satisfies, the Graph container that owns nodes by handle
// and wires their ports, the arity-checked algebra that combines graphs, and
// the live Backend that lets a playing graph be edited from the control
// goroutine.
//
// A Graph is itself a Unit, so graphs nest. Nodes live in an arena and are
// addressed by NodeHandle (slot index plus generation); edges are stored as
// the single source of each sink port, which keeps every node input and
// every global output bound at most once. Feedback is a wrapper node that
// delays its loop by one sample, so the wiring is always acyclic.
//
// Tick never allocates. Structural edits recompile the evaluation order
// with Kahn's algorithm on the calling goroutine.
package graph
