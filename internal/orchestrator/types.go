package orchestrator

import (
	"time"
)

// PortSpec describes one TCP port a service is expected to hold open,
// together with a human-facing label for status output.
type PortSpec struct {
	Port  int    `yaml:"port"`
	Label string `yaml:"label,omitempty"`
}

// FallbackSpec is an alternate way to launch the underlying daemon directly,
// bypassing the service manager, when the managed start fails.
type FallbackSpec struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// ServiceSpec declares one service under orchestration. Ordinal position in
// the spec list defines the startup order; StopAll walks the same list in
// reverse.
type ServiceSpec struct {
	Name        string        `yaml:"name"`
	Essential   bool          `yaml:"essential"`
	Ports       []PortSpec    `yaml:"ports,omitempty"`
	Fallback    *FallbackSpec `yaml:"fallback,omitempty"`
	KillPattern string        `yaml:"killPattern,omitempty"` // pattern for the forced-terminate sweep after a graceful stop
}

// ServiceState is the transient per-service state during a single start
// attempt. It is derived fresh on every run and never persisted.
type ServiceState string

const (
	StateNotStarted       ServiceState = "NotStarted"
	StateStarting         ServiceState = "Starting"
	StateRunning          ServiceState = "Running"
	StateStartFailed      ServiceState = "StartFailed"
	StateFallbackStarting ServiceState = "FallbackStarting"
	StateFallbackFailed   ServiceState = "FallbackFailed"
	StateStopping         ServiceState = "Stopping"
	StateStopped          ServiceState = "Stopped"
	StateAborted          ServiceState = "Aborted"
)

// Outcome is the terminal result recorded for one service in a run.
type Outcome string

const (
	OutcomeRunning         Outcome = "Running"
	OutcomeAlreadyRunning  Outcome = "AlreadyRunning"
	OutcomeRunningFallback Outcome = "RunningViaFallback"
	OutcomeOptionalFailed  Outcome = "OptionalServiceFailed"
	OutcomeAborted         Outcome = "Aborted"
)

// Success reports whether the outcome counts as a healthy service.
func (o Outcome) Success() bool {
	switch o {
	case OutcomeRunning, OutcomeAlreadyRunning, OutcomeRunningFallback:
		return true
	}
	return false
}

// ServiceResult is the per-service entry in an OrchestrationRun.
type ServiceResult struct {
	Name         string        `yaml:"name"`
	Essential    bool          `yaml:"essential"`
	Outcome      Outcome       `yaml:"outcome"`
	UsedFallback bool          `yaml:"usedFallback,omitempty"`
	Elapsed      time.Duration `yaml:"elapsed"`
	Err          error         `yaml:"-"`
	ErrorDetail  string        `yaml:"error,omitempty"`
}

// OrchestrationRun is the ordered report of one StartAll/FixPorts
// invocation. It is produced once per run and never persisted.
type OrchestrationRun struct {
	Results []ServiceResult `yaml:"results"`
	Aborted bool            `yaml:"aborted"`
	Healthy bool            `yaml:"healthy"`
	NoOp    bool            `yaml:"noop,omitempty"` // FixPorts found everything already bound
}

// ExitCode maps the run onto a process exit code: 0 when every essential
// service ended healthy, 1 otherwise.
func (r OrchestrationRun) ExitCode() int {
	if r.Healthy {
		return 0
	}
	return 1
}

// PortStatus is the bound/unbound observation for a single port.
type PortStatus struct {
	PortSpec `yaml:",inline"`
	Bound    bool `yaml:"bound"`
}

// PortReport is the result of a pure CheckPorts call.
type PortReport struct {
	Ports []PortStatus `yaml:"ports"`
}

// AllBound reports whether every checked port was observed listening.
func (p PortReport) AllBound() bool {
	for _, ps := range p.Ports {
		if !ps.Bound {
			return false
		}
	}
	return true
}

// Unbound returns the subset of checked ports not observed listening.
func (p PortReport) Unbound() []PortSpec {
	var out []PortSpec
	for _, ps := range p.Ports {
		if !ps.Bound {
			out = append(out, ps.PortSpec)
		}
	}
	return out
}

// RetryPolicy holds the fixed-interval polling budgets. Daemon startup
// latency in this domain is bounded and small, so there is no backoff.
type RetryPolicy struct {
	StartTimeout  time.Duration `yaml:"startTimeout"`  // total budget for is-active polling
	StartInterval time.Duration `yaml:"startInterval"` // delay between is-active polls
	PortAttempts  int           `yaml:"portAttempts"`  // port poll budget
	PortInterval  time.Duration `yaml:"portInterval"`  // delay between port polls
	StopGrace     time.Duration `yaml:"stopGrace"`     // grace before the forced-terminate sweep
}

// DefaultRetryPolicy returns the stock polling budgets.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		StartTimeout:  30 * time.Second,
		StartInterval: 1 * time.Second,
		PortAttempts:  10,
		PortInterval:  2 * time.Second,
		StopGrace:     3 * time.Second,
	}
}

// withDefaults fills any zero field from DefaultRetryPolicy.
func (p RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.StartTimeout <= 0 {
		p.StartTimeout = def.StartTimeout
	}
	if p.StartInterval <= 0 {
		p.StartInterval = def.StartInterval
	}
	if p.PortAttempts <= 0 {
		p.PortAttempts = def.PortAttempts
	}
	if p.PortInterval <= 0 {
		p.PortInterval = def.PortInterval
	}
	if p.StopGrace <= 0 {
		p.StopGrace = def.StopGrace
	}
	return p
}
