package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-livecode/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "livecode",
	Short: "Live-code audio graphs",
	Long: `livecode evaluates a small expression language that builds audio graphs
and swaps them into the running output without clicks.`,
	SilenceUsage: true,
	RunE:         runRepl,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", config.DefaultPath, "configuration file")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Float64("sample-rate", 0, "output sample rate in Hz")
	flags.Bool("no-audio", false, "do not open the audio device")
	flags.String("capture", "", "raw float32 LE interleaved capture source, - for stdin")
}
