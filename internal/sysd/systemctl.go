// Package sysd adapts systemctl to the orchestrator's ServiceManager
// interface. All commands run through an injectable Runner so tests can
// assert the exact invocations without touching the host.
package sysd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes a command and returns its combined output with leading
// and trailing whitespace trimmed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return strings.TrimSpace(buf.String()), err
}

// Systemctl drives OS service units by name.
type Systemctl struct {
	runner Runner
}

// NewSystemctl returns a Systemctl backed by real command execution.
func NewSystemctl() *Systemctl {
	return &Systemctl{runner: execRunner{}}
}

// NewSystemctlWithRunner returns a Systemctl backed by the given runner.
func NewSystemctlWithRunner(r Runner) *Systemctl {
	return &Systemctl{runner: r}
}

// Enable marks the unit to start at boot.
func (s *Systemctl) Enable(ctx context.Context, name string) error {
	if out, err := s.runner.Run(ctx, "systemctl", "enable", name); err != nil {
		return fmt.Errorf("systemctl enable %s: %w: %s", name, err, out)
	}
	return nil
}

// Start issues a start request for the unit.
func (s *Systemctl) Start(ctx context.Context, name string) error {
	if out, err := s.runner.Run(ctx, "systemctl", "start", name); err != nil {
		return fmt.Errorf("systemctl start %s: %w: %s", name, err, out)
	}
	return nil
}

// Stop issues a stop request for the unit.
func (s *Systemctl) Stop(ctx context.Context, name string) error {
	if out, err := s.runner.Run(ctx, "systemctl", "stop", name); err != nil {
		return fmt.Errorf("systemctl stop %s: %w: %s", name, err, out)
	}
	return nil
}

// IsActive reports whether the unit is currently active. systemctl exits
// non-zero for any inactive state, so a known state string on stdout is not
// an error here.
func (s *Systemctl) IsActive(ctx context.Context, name string) (bool, error) {
	out, err := s.runner.Run(ctx, "systemctl", "is-active", name)
	if out == "active" {
		return true, nil
	}
	switch out {
	case "inactive", "failed", "activating", "deactivating", "unknown":
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("systemctl is-active %s: %w: %s", name, err, out)
	}
	return false, nil
}

// DaemonReload asks systemd to re-read unit files, needed after rendering
// new configuration.
func (s *Systemctl) DaemonReload(ctx context.Context) error {
	if out, err := s.runner.Run(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("systemctl daemon-reload: %w: %s", err, out)
	}
	return nil
}
