package session

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cwbudde/algo-livecode/internal/eval"
	"github.com/cwbudde/algo-livecode/internal/lang"
	"github.com/cwbudde/algo-livecode/internal/logging"
)

// DefaultTranscript is the number of entries kept by default.
const DefaultTranscript = 256

// Entry is one evaluated submission.
type Entry struct {
	At       time.Time
	Source   string
	Outcomes []eval.Outcome
}

// Result is the outcome of Submit.
type Result struct {
	// Incomplete reports that the text was buffered, waiting for more
	// input.
	Incomplete bool
	Outcomes   []eval.Outcome
}

// Stats counts submissions by result. Statements are counted one by one.
type Stats struct {
	OK          uint64
	Rejected    uint64
	ParseErrors uint64
}

// Binding describes one environment entry.
type Binding struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithTranscript sets how many entries the transcript keeps.
func WithTranscript(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.keep = n
		}
	}
}

// Session is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	eval       *eval.Evaluator
	log        *slog.Logger
	pending    strings.Builder
	transcript []Entry
	keep       int
	sliders    map[string]*slider
	stats      Stats
}

// New wraps e. The Session takes ownership of e.
func New(e *eval.Evaluator, opts ...Option) *Session {
	s := &Session{
		eval:    e,
		log:     logging.NewNop(),
		keep:    DefaultTranscript,
		sliders: make(map[string]*slider),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit appends text to the pending input. Once the input parses, every
// statement is evaluated in order and the pending buffer is cleared.
// Unbalanced input stays buffered. Any other parse error discards the
// buffer, evaluates nothing and is returned.
func (s *Session) Submit(text string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending.WriteString(text)
	s.pending.WriteByte('\n')
	src := s.pending.String()

	prog, err := lang.Parse(src)
	if errors.Is(err, lang.ErrIncomplete) {
		return Result{Incomplete: true}, nil
	}
	s.pending.Reset()
	if err != nil {
		s.stats.ParseErrors++
		s.log.Debug("parse failed", "error", err)
		return Result{}, err
	}

	outs := make([]eval.Outcome, len(prog.Stmts))
	for i, st := range prog.Stmts {
		outs[i] = s.eval.Eval(st)
		if outs[i].Err != nil {
			s.stats.Rejected++
		} else {
			s.stats.OK++
		}
	}

	s.record(Entry{At: time.Now(), Source: strings.TrimSpace(src), Outcomes: outs})
	return Result{Outcomes: outs}, nil
}

func (s *Session) record(e Entry) {
	s.transcript = append(s.transcript, e)
	if over := len(s.transcript) - s.keep; over > 0 {
		s.transcript = append(s.transcript[:0], s.transcript[over:]...)
	}
}

// Pending reports whether incomplete input is buffered.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Len() > 0
}

// Discard drops buffered input.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Reset()
}

// Transcript returns a copy of the kept entries, oldest first.
func (s *Session) Transcript() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.transcript...)
}

// Stats returns the statement counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Bindings lists the environment in name order.
func (s *Session) Bindings() []Binding {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := s.eval.Env()
	names := env.Names()
	out := make([]Binding, 0, len(names))
	for _, name := range names {
		v, _ := env.Get(name)
		out = append(out, Binding{Name: name, Kind: v.Kind().String(), Text: v.String()})
	}
	return out
}

// Len returns the number of bindings.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eval.Env().Len()
}

// Close releases resources opened by scripts.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eval.Close()
}
