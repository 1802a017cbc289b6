package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-livecode/dsp/dither"
	"github.com/cwbudde/algo-livecode/dsp/graph"
	"github.com/cwbudde/algo-livecode/internal/eval"
	"github.com/cwbudde/algo-livecode/internal/wavfile"
)

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Evaluate a script and render one of its graphs to WAV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, false)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.runFile(os.Stdout, args[0]); err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("graph")
		seconds, _ := cmd.Flags().GetFloat64("seconds")
		out, _ := cmd.Flags().GetString("out")
		ditherName, _ := cmd.Flags().GetString("dither")

		kind, ok := dither.ParseKind(ditherName)
		if !ok {
			return fmt.Errorf("render: unknown dither %q", ditherName)
		}

		v, ok := a.eval.Env().Get(name)
		if !ok {
			return fmt.Errorf("render: %s is not bound", name)
		}
		g, ok := v.(eval.Graph)
		if !ok {
			return fmt.Errorf("render: %s is a %s, not a graph", name, v.Kind())
		}

		w, err := graph.Render(g.G, a.eval.SampleRate(), seconds)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := wavfile.Save(out, w, dither.WithKind(kind)); err != nil {
			return err
		}

		a.log.Info("rendered", "graph", name, "seconds", seconds, "out", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().String("graph", "out", "binding to render")
	renderCmd.Flags().Float64("seconds", 5, "length in seconds")
	renderCmd.Flags().StringP("out", "o", "out.wav", "output WAV file")
	renderCmd.Flags().String("dither", "triangular", "dither for 16-bit output: none, rectangular or triangular")
}
