package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStopAllCmd creates the stop-all command.
func newStopAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop-all",
		Short: "Stop every declared service in reverse order",
		Long: `Stop every declared service in exactly the reverse of start order.
Services that are already stopped are skipped silently. Services with a
declared process pattern get a forced-terminate sweep after a short grace
period, so daemons launched outside the service manager are cleaned up too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigAndInitLogging(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			orch := buildOrchestrator(cfg)
			if err := orch.StopAll(cmd.Context(), cfg.Services); err != nil {
				return fmt.Errorf("failed to stop all services: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All services stopped")
			return nil
		},
	}
}
