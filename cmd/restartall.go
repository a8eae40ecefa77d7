package cmd

import (
	"github.com/spf13/cobra"
)

// newRestartAllCmd creates the restart-all command.
func newRestartAllCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "restart-all",
		Short: "Stop and then start every declared service",
		Long: `Stop every declared service in reverse order, then start them again in
declared order. Stop errors are logged but do not prevent the start phase;
the exit code reflects the health of the start phase only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAndInitLogging(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			orch := buildOrchestrator(cfg)
			run := orch.RestartAll(cmd.Context(), cfg.Services)
			return reportRun(cmd, run, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format (text or yaml)")
	return cmd
}
