// Package repl runs the interactive prompt over a session.
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"

	"github.com/cwbudde/algo-livecode/internal/logging"
	"github.com/cwbudde/algo-livecode/internal/session"
)

const (
	PromptMain = "> "
	PromptCont = ". "
)

// Prompter reads one line of input. *liner.State satisfies it.
type Prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// REPL reads statements, feeds them to a session and prints outcomes.
type REPL struct {
	s    *session.Session
	p    Prompter
	out  io.Writer
	help func() (string, error)
	log  *slog.Logger
}

// Option configures a REPL.
type Option func(*REPL)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *REPL) { r.log = l }
}

// WithHelp sets the text printed by :help.
func WithHelp(fn func() (string, error)) Option {
	return func(r *REPL) { r.help = fn }
}

// New returns a REPL reading from p and writing to out.
func New(s *session.Session, p Prompter, out io.Writer, opts ...Option) *REPL {
	r := &REPL{
		s:    s,
		p:    p,
		out:  out,
		help: func() (string, error) { return Help(nil), nil },
		log:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run prompts until end of input or :quit. Ctrl-C discards pending input.
func (r *REPL) Run() error {
	for {
		prompt := PromptMain
		if r.s.Pending() {
			prompt = PromptCont
		}

		line, err := r.p.Prompt(prompt)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out)
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			r.s.Discard()
			continue
		case err != nil:
			return fmt.Errorf("repl: %w", err)
		}

		if !r.Line(line) {
			return nil
		}
	}
}

// Line handles one input line. It returns false once the user quits.
func (r *REPL) Line(line string) bool {
	trimmed := strings.TrimSpace(line)

	if !r.s.Pending() && strings.HasPrefix(trimmed, ":") {
		return r.command(trimmed)
	}
	if trimmed == "" && !r.s.Pending() {
		return true
	}

	r.p.AppendHistory(line)

	res, err := r.s.Submit(line)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return true
	}
	for _, o := range res.Outcomes {
		if o.Text != "" {
			fmt.Fprintln(r.out, o.Text)
		}
		if o.Err != nil {
			fmt.Fprintf(r.out, "error: %v\n", o.Err)
		}
	}
	return true
}

func (r *REPL) command(cmd string) bool {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case ":quit", ":q", ":exit":
		return false
	case ":help", ":h":
		text, err := r.help()
		if err != nil {
			r.log.Warn("render help", "error", err)
		}
		fmt.Fprint(r.out, text)
	case ":env":
		for _, b := range r.s.Bindings() {
			if arg != "" && b.Name != arg && b.Kind != arg {
				continue
			}
			fmt.Fprintf(r.out, "%s: %s = %s\n", b.Name, b.Kind, b.Text)
		}
	case ":sliders":
		for _, sl := range r.s.Sliders() {
			fmt.Fprintf(r.out, "%s = %g [%g, %g]\n", sl.Name, sl.Value, sl.Min, sl.Max)
		}
	case ":stats":
		st := r.s.Stats()
		fmt.Fprintf(r.out, "ok %d, rejected %d, parse errors %d\n", st.OK, st.Rejected, st.ParseErrors)
	default:
		fmt.Fprintf(r.out, "unknown command %s. Type :help for a list.\n", name)
	}
	return true
}
