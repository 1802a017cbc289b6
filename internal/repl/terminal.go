package repl

import (
	"os"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Terminal is a liner prompt with persistent history.
type Terminal struct {
	*liner.State
	history string
}

// OpenTerminal starts line editing. History is read from path and written
// back on Close; an empty path disables it.
func OpenTerminal(history string) *Terminal {
	t := &Terminal{State: liner.NewLiner(), history: history}
	t.SetCtrlCAborts(true)

	if history != "" {
		if f, err := os.Open(history); err == nil {
			_, _ = t.ReadHistory(f)
			_ = f.Close()
		}
	}
	return t
}

// Close saves history and restores the terminal.
func (t *Terminal) Close() error {
	if t.history != "" {
		if f, err := os.Create(t.history); err == nil {
			_, _ = t.WriteHistory(f)
			_ = f.Close()
		}
	}
	return t.State.Close()
}
