package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"go.trai.ch/pmake/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Build targets, or the default target when none are given",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			progress, _ := cmd.Flags().GetBool("progress")

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				LoadOptions: c.load,
				Jobs:        jobs,
				Progress:    progress,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", runtime.NumCPU(), "Run up to `N` actions at once")
	cmd.Flags().Bool("progress", false, "Show a live progress view instead of streaming action output")
	return cmd
}
