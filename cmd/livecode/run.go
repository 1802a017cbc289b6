package main

import (
	"os"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run FILE...",
	Short: "Evaluate scripts in order",
	Long: `Evaluates each script in one session. With --hold the process keeps
playing until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		for _, path := range args {
			if err := a.runFile(os.Stdout, path); err != nil {
				return err
			}
		}

		if hold, _ := cmd.Flags().GetBool("hold"); hold && a.device != nil {
			<-interrupted()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("hold", false, "keep playing until interrupted")
}
