package commands

import (
	"github.com/spf13/cobra"

	"github.com/veedubyou/instrumental-be/src/shared/extraction/stack"
	"github.com/veedubyou/instrumental-be/src/shared/lib/logging"
)

type Options struct {
	// Executors replaces the external binaries, left empty the real ones are run
	Executors stack.Executors
}

func NewRootCommand(options Options) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:           "instrumental",
		Short:         "Strip the vocals out of a track",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupCLI(verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every extraction stage")

	rootCmd.AddCommand(newExtractCommand(options))
	rootCmd.AddCommand(newSweepCommand())

	return rootCmd
}
