package repl

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-livecode/dsp/unit"
	"github.com/cwbudde/algo-livecode/internal/eval"
	"github.com/cwbudde/algo-livecode/internal/session"
)

// script replays lines, then reports end of input.
type script struct {
	lines   []string
	errs    map[int]error
	prompts []string
	history []string
}

func (s *script) Prompt(prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if err, ok := s.errs[i]; ok {
		return "", err
	}
	if i >= len(s.lines) {
		return "", io.EOF
	}
	return s.lines[i], nil
}

func (s *script) AppendHistory(item string) {
	s.history = append(s.history, item)
}

func run(t *testing.T, p *script) string {
	t.Helper()

	s := session.New(eval.New(eval.WithSampleRate(1000)))
	t.Cleanup(func() { _ = s.Close() })

	var out bytes.Buffer
	require.NoError(t, New(s, p, &out).Run())
	return out.String()
}

func TestRunPrintsOutcomes(t *testing.T) {
	t.Parallel()

	p := &script{lines: []string{"let x = 2;", "x + 1;", "nosuch;", ""}}
	out := run(t, p)

	assert.Contains(t, out, "3\n")
	assert.Contains(t, out, "error: ")
	assert.Equal(t, []string{"let x = 2;", "x + 1;", "nosuch;"}, p.history)
}

func TestRunContinuationPrompt(t *testing.T) {
	t.Parallel()

	p := &script{lines: []string{"for i in 0..2 {", "", "}", "1;"}}
	run(t, p)

	assert.Equal(t, []string{PromptMain, PromptCont, PromptCont, PromptMain, PromptMain}, p.prompts)
}

func TestRunAbortDiscardsPending(t *testing.T) {
	t.Parallel()

	p := &script{
		lines: []string{"[1, 2,", "", "7;"},
		errs:  map[int]error{1: liner.ErrPromptAborted},
	}
	out := run(t, p)

	assert.Equal(t, PromptMain, p.prompts[2])
	assert.Contains(t, out, "7\n")
}

func TestRunReturnsPromptErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := session.New(eval.New())
	err := New(s, &script{errs: map[int]error{0: boom}}, io.Discard).Run()
	require.ErrorIs(t, err, boom)
}

func TestCommands(t *testing.T) {
	t.Parallel()

	p := &script{lines: []string{
		"let a = 1; let s = \"x\";",
		":env",
		":env string",
		":stats",
		":bogus",
		":quit",
		"let never = 1;",
	}}
	out := run(t, p)

	assert.Contains(t, out, "a: scalar = 1\n")
	assert.Contains(t, out, "s: string = \"x\"\n")
	assert.Contains(t, out, "ok 2, rejected 0, parse errors 0\n")
	assert.Contains(t, out, "unknown command :bogus")
	assert.Len(t, p.prompts, 6, ":quit stops the loop")
	assert.NotContains(t, p.history, ":env")
}

func TestHelp(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	s := session.New(eval.New())
	r := New(s, &script{}, &out, WithHelp(func() (string, error) { return "HELP\n", nil }))
	require.True(t, r.Line(":help"))
	assert.Equal(t, "HELP\n", out.String())

	md := Help(unit.DefaultRegistry())
	assert.Contains(t, md, "## Units")
	assert.Contains(t, md, "`sine_hz(hz): fixed-frequency oscillator, 0 in 1 out`")

	plain, err := Renderer(false)(md)
	require.NoError(t, err)
	assert.Equal(t, md, plain)
}
