package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mailstackctl/internal/config"
	"mailstackctl/internal/netcheck"
	"mailstackctl/internal/orchestrator"
	"mailstackctl/internal/proc"
	"mailstackctl/internal/reporting"
	"mailstackctl/internal/sysd"
)

// buildOrchestrator wires the orchestrator against the real host: systemctl
// for unit control, TCP probes for ports, direct exec for fallbacks.
func buildOrchestrator(cfg config.MailstackConfig) *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.Config{
		ServiceManager: sysd.NewSystemctl(),
		PortChecker:    netcheck.NewChecker(),
		ProcessRunner:  proc.NewExec(),
		Reporter:       reporting.NewConsoleReporter(),
		Policy:         cfg.Retry,
	})
}

// reportRun prints the run in the requested format and converts an unhealthy
// run into an error so the process exits non-zero.
func reportRun(cmd *cobra.Command, run orchestrator.OrchestrationRun, outputFormat string) error {
	switch outputFormat {
	case "yaml":
		out, err := reporting.MarshalYAML(run)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	default:
		fmt.Fprint(cmd.OutOrStdout(), reporting.RenderRun(run))
	}

	if run.ExitCode() != 0 {
		return fmt.Errorf("one or more essential services are not healthy")
	}
	return nil
}
