package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"mailstackctl/internal/config"
	"mailstackctl/internal/netcheck"
	"mailstackctl/internal/orchestrator"
	"mailstackctl/internal/reporting"
	"mailstackctl/internal/sysd"
	"mailstackctl/internal/watch"
	"mailstackctl/pkg/logging"
)

// serviceStatus is the per-service snapshot behind the status command.
type serviceStatus struct {
	Name      string                    `yaml:"name"`
	Essential bool                      `yaml:"essential"`
	Active    bool                      `yaml:"active"`
	Ports     []orchestrator.PortStatus `yaml:"ports,omitempty"`
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	var (
		outputFormat string
		watchMode    bool
		interval     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show service and port state without changing anything",
		Long: `Show whether each declared service is active and each declared port is
bound. Nothing is started, stopped or restarted. With --watch the same
snapshot is refreshed on an interval in a live dashboard.

The exit code is 0 when every essential service is active with all of its
ports bound, and 1 otherwise, so the command doubles as a health probe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchMode {
				return runStatusWatch(interval)
			}

			cfg, err := loadConfigAndInitLogging(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			statuses := fetchStatuses(cmd.Context(), cfg, sysd.NewSystemctl(), netcheck.NewChecker())
			return printStatuses(cmd, statuses, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format (text or yaml)")
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "refresh the status continuously in a dashboard")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "refresh interval for --watch")
	return cmd
}

// fetchStatuses gathers one snapshot of unit and port state.
func fetchStatuses(ctx context.Context, cfg config.MailstackConfig, mgr orchestrator.ServiceManager, ports orchestrator.PortChecker) []serviceStatus {
	out := make([]serviceStatus, 0, len(cfg.Services))
	for _, spec := range cfg.Services {
		s := serviceStatus{Name: spec.Name, Essential: spec.Essential}

		active, err := mgr.IsActive(ctx, spec.Name)
		if err != nil {
			logging.Debug("Status", "is-active check for %s failed: %v", spec.Name, err)
		}
		s.Active = active

		for _, p := range spec.Ports {
			bound, err := ports.Listening(ctx, p.Port)
			if err != nil {
				logging.Debug("Status", "port %d probe failed: %v", p.Port, err)
				bound = false
			}
			s.Ports = append(s.Ports, orchestrator.PortStatus{PortSpec: p, Bound: bound})
		}
		out = append(out, s)
	}
	return out
}

// healthy reports whether every essential service is active with all of its
// declared ports bound.
func healthy(statuses []serviceStatus) bool {
	for _, s := range statuses {
		if !s.Essential {
			continue
		}
		if !s.Active {
			return false
		}
		for _, p := range s.Ports {
			if !p.Bound {
				return false
			}
		}
	}
	return true
}

func printStatuses(cmd *cobra.Command, statuses []serviceStatus, outputFormat string) error {
	if outputFormat == "yaml" {
		out, err := reporting.MarshalYAML(statuses)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
	} else {
		for _, s := range statuses {
			unit := "stopped"
			if s.Active {
				unit = "active"
			}
			name := s.Name
			if s.Essential {
				name += "*"
			}

			var ports []string
			for _, p := range s.Ports {
				mark := "✗"
				if p.Bound {
					mark = "✓"
				}
				label := fmt.Sprintf("%d", p.Port)
				if p.Label != "" {
					label = fmt.Sprintf("%d/%s", p.Port, p.Label)
				}
				ports = append(ports, mark+label)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %-8s %s\n", name, unit, strings.Join(ports, " "))
		}
	}

	if !healthy(statuses) {
		return fmt.Errorf("at least one essential service is not healthy")
	}
	return nil
}

// runStatusWatch starts the live dashboard. Logging is rerouted into the
// dashboard's log pane for the duration.
func runStatusWatch(interval time.Duration) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	level := cfg.GlobalSettings.LogLevel
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logCh := logging.InitForWatch(parseLogLevel(level))
	defer logging.CloseWatchChannel()

	mgr := sysd.NewSystemctl()
	ports := netcheck.NewChecker()
	fetch := func(ctx context.Context) []watch.ServiceRow {
		statuses := fetchStatuses(ctx, cfg, mgr, ports)
		rows := make([]watch.ServiceRow, 0, len(statuses))
		for _, s := range statuses {
			rows = append(rows, watch.ServiceRow{
				Name:      s.Name,
				Essential: s.Essential,
				Active:    s.Active,
				Ports:     s.Ports,
			})
		}
		return rows
	}

	model := watch.NewModel(fetch, interval, logCh)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("failed to run status dashboard: %w", err)
	}
	return nil
}
