package cmd

import (
	"github.com/spf13/cobra"
)

// newStartAllCmd creates the start-all command.
func newStartAllCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "start-all",
		Short: "Start every declared service in dependency order",
		Long: `Start every declared service in dependency order, waiting for each one
to report active and to bind its declared ports before moving on. A failed
essential service aborts the run; failed optional services are reported and
skipped. Services that are already active with all ports bound are left
untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAndInitLogging(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			orch := buildOrchestrator(cfg)
			run := orch.StartAll(cmd.Context(), cfg.Services)
			return reportRun(cmd, run, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format (text or yaml)")
	return cmd
}
