package lang

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax matches every parse failure.
	ErrSyntax = errors.New("syntax error")
	// ErrIncomplete matches failures caused by input ending early.
	ErrIncomplete = errors.New("incomplete input")
)

// Error is a positioned parse failure.
type Error struct {
	Pos        Pos
	Msg        string
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Is reports ErrSyntax for every Error and ErrIncomplete for early ends.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSyntax:
		return true
	case ErrIncomplete:
		return e.Incomplete
	default:
		return false
	}
}
