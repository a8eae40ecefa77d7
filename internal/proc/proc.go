// Package proc launches fallback daemons directly and terminates process
// groups by name pattern. It is the escape hatch for units the service
// manager cannot bring up cleanly.
package proc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"mailstackctl/pkg/logging"
)

// Exec is the real ProcessRunner implementation.
type Exec struct {
	runFn func(ctx context.Context, name string, args ...string) error
}

// NewExec returns a ProcessRunner backed by real process execution.
func NewExec() *Exec {
	return &Exec{}
}

// Launch starts the command detached in its own process group so the
// daemon survives mailstackctl exiting. Output is discarded; daemons
// launched this way are expected to log through their own channels.
func (e *Exec) Launch(ctx context.Context, command string, args []string) error {
	cmd := exec.Command(command, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Env = os.Environ()
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", command, err)
	}

	pid := cmd.Process.Pid
	logging.Info("Proc", "Launched fallback process %s (PID: %d)", command, pid)

	// Detach: the daemon owns its own lifecycle from here.
	if err := cmd.Process.Release(); err != nil {
		logging.Debug("Proc", "Release of PID %d: %v", pid, err)
	}
	return nil
}

// KillPattern sends SIGTERM to all processes whose command line matches the
// pattern, via pkill -f. "Nothing matched" is not an error: the sweep is a
// cleanup pass over processes that may already be gone.
func (e *Exec) KillPattern(ctx context.Context, pattern string) error {
	run := e.runFn
	if run == nil {
		run = func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		}
	}

	err := run(ctx, "pkill", "-f", pattern)
	if err == nil {
		logging.Debug("Proc", "Terminated processes matching %q", pattern)
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		// pkill exit 1: no processes matched.
		return nil
	}
	return fmt.Errorf("pkill -f %s: %w", pattern, err)
}
