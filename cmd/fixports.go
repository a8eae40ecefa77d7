package cmd

import (
	"github.com/spf13/cobra"
)

// newFixPortsCmd creates the fix-ports command.
func newFixPortsCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "fix-ports",
		Short: "Restart the stack only if a declared port is unbound",
		Long: `Check every declared port and do nothing if all of them are bound.
When at least one port is missing, the whole stack is stopped and started
again; targeted single-service restarts are deliberately avoided because the
daemons share sockets and milter connections, and a partial restart can leave
those links stale.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAndInitLogging(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			orch := buildOrchestrator(cfg)
			run := orch.FixPorts(cmd.Context(), cfg.Services)
			return reportRun(cmd, run, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format (text or yaml)")
	return cmd
}
