package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veedubyou/instrumental-be/src/shared/extraction/lifecycle"
	"github.com/veedubyou/instrumental-be/src/shared/lib/cerr"
	"github.com/veedubyou/instrumental-be/src/shared/lib/working_dir"
)

// jobs still held by a running server or another extract are left alone
func newSweepCommand() *cobra.Command {
	var workingDirPath string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove files left behind by finished or crashed jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			workingDir, err := working_dir.NewWorkingDir(workingDirPath)
			if err != nil {
				return err
			}

			result := lifecycle.NewManager(workingDir).Sweep()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Removed %d job(s), skipped %d\n", len(result.Removed), len(result.Skipped))
			for _, sweepErr := range result.Errors {
				fmt.Fprintf(out, "Couldn't remove %s: %s\n", sweepErr.Path, sweepErr.Err)
			}

			if result.HasErrors() {
				return cerr.Field("errors", len(result.Errors)).Error("Sweep did not finish cleanly")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&workingDirPath, "working-dir", defaultWorkingDir(), "Working directory to sweep")

	return cmd
}
