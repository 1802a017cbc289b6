// Package session serializes control input into an Evaluator.
//
// A Session buffers text until it parses as a complete program, runs the
// statements under one mutex, keeps a bounded transcript and owns the
// slider registry that maps GUI controls onto scalar or cell bindings.
// Every front end (REPL, script runner, HTTP) goes through a Session, so
// the evaluator never sees concurrent calls.
package session
