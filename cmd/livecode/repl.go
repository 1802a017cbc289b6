package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-livecode/internal/repl"
)

const historyFile = ".livecode_history"

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive prompt (default)",
	Args:  cobra.NoArgs,
	RunE:  runRepl,
}

func runRepl(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, historyFile)
	}

	term := repl.OpenTerminal(history)
	defer term.Close()

	md := repl.Help(a.eval.Registry())
	render := repl.Renderer(repl.IsTerminal(os.Stdout))
	r := repl.New(a.sess, term, os.Stdout,
		repl.WithLogger(a.log),
		repl.WithHelp(func() (string, error) { return render(md) }),
	)
	return r.Run()
}

func init() {
	rootCmd.AddCommand(replCmd)
}
