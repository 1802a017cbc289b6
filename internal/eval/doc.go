// Package eval resolves parsed statements against a live environment.
//
// Expressions carry no static types. Each one is tried against the value
// domains in a fixed order (see ResolutionOrder) and the first domain that
// accepts it wins: a bare integer literal is always a scalar, a call of a
// registered constructor is a graph, and so on.
//
// A statement either takes full effect or none at all. Failures are
// reported in the Outcome and logged at debug level; Eval never panics.
package eval
