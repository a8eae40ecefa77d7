// Package reporting turns orchestration results into operator-facing
// output: state transitions logged as they happen, plus a rendered summary
// of the finished run in human or machine form.
package reporting

import (
	"mailstackctl/internal/orchestrator"
	"mailstackctl/pkg/logging"
)

// ConsoleReporter logs service state transitions through pkg/logging as the
// orchestrator works. It implements orchestrator.Reporter.
type ConsoleReporter struct{}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// ServiceTransition logs one state change, mapping states onto log levels
// so routine progress stays quiet and failures stand out.
func (c *ConsoleReporter) ServiceTransition(name string, state orchestrator.ServiceState, err error) {
	subsystem := "Service-" + name
	msg := "State: " + string(state)

	switch state {
	case orchestrator.StateStarting, orchestrator.StateFallbackStarting, orchestrator.StateStopping:
		logging.Debug(subsystem, "%s", msg)
	case orchestrator.StateRunning, orchestrator.StateStopped:
		logging.Info(subsystem, "%s", msg)
	case orchestrator.StateStartFailed:
		logging.Warn(subsystem, "%s: %v", msg, err)
	case orchestrator.StateFallbackFailed, orchestrator.StateAborted:
		logging.Error(subsystem, err, "%s", msg)
	default:
		logging.Debug(subsystem, "%s", msg)
	}
}
