package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mailstackctl/pkg/logging"
)

// Orchestrator sequences a declared list of services into a running,
// port-bound state. It holds no state between invocations; every run reads
// current OS state fresh. It assumes a single operator at a time and does
// not lock against concurrent runs.
type Orchestrator struct {
	mgr      ServiceManager
	ports    PortChecker
	proc     ProcessRunner
	reporter Reporter
	sleeper  Sleeper
	policy   RetryPolicy
}

// Config wires the orchestrator's collaborators. ServiceManager,
// PortChecker and ProcessRunner are required; Reporter and Sleeper are
// optional and Policy fields left zero take defaults.
type Config struct {
	ServiceManager ServiceManager
	PortChecker    PortChecker
	ProcessRunner  ProcessRunner
	Reporter       Reporter
	Sleeper        Sleeper
	Policy         RetryPolicy
}

// New creates an orchestrator from explicit configuration. No ambient
// process state is consulted.
func New(cfg Config) *Orchestrator {
	sleeper := cfg.Sleeper
	if sleeper == nil {
		sleeper = realSleeper{}
	}
	return &Orchestrator{
		mgr:      cfg.ServiceManager,
		ports:    cfg.PortChecker,
		proc:     cfg.ProcessRunner,
		reporter: cfg.Reporter,
		sleeper:  sleeper,
		policy:   cfg.Policy.withDefaults(),
	}
}

// StartAll starts the given services in declared order. An essential
// failure aborts the run immediately; optional failures are recorded and
// the run continues. Already-running, fully bound services are reported as
// successes without a redundant start command.
func (o *Orchestrator) StartAll(ctx context.Context, specs []ServiceSpec) OrchestrationRun {
	run := OrchestrationRun{Healthy: true}

	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			run.Aborted = true
			run.Healthy = false
			logging.Warn("Orchestrator", "Run cancelled before starting %s: %v", spec.Name, err)
			return run
		}

		result := o.startService(ctx, spec)
		run.Results = append(run.Results, result)

		if result.Outcome.Success() {
			continue
		}

		if spec.Essential {
			// Abort: later services often depend on sockets this one was
			// supposed to create, so starting them would cascade failures.
			run.Aborted = true
			run.Healthy = false
			o.transition(spec.Name, StateAborted, result.Err)
			logging.Error("Orchestrator", result.Err, "Essential service %s failed, aborting run", spec.Name)
			return run
		}

		logging.Warn("Orchestrator", "Optional service %s failed, continuing: %v", spec.Name, result.Err)
	}

	return run
}

// StopAll stops services in exactly the reverse of declared order,
// tolerating already-stopped services silently. Specs with a KillPattern
// get a forced-terminate sweep after the grace period.
func (o *Orchestrator) StopAll(ctx context.Context, specs []ServiceSpec) error {
	var errs []error

	for i := len(specs) - 1; i >= 0; i-- {
		spec := specs[i]

		active, err := o.mgr.IsActive(ctx, spec.Name)
		if err != nil {
			logging.Debug("Orchestrator", "is-active check for %s failed, stopping anyway: %v", spec.Name, err)
			active = true
		}
		if active {
			o.transition(spec.Name, StateStopping, nil)
			if err := o.mgr.Stop(ctx, spec.Name); err != nil {
				errs = append(errs, fmt.Errorf("stop %s: %w", spec.Name, err))
				logging.Error("Orchestrator", err, "Failed to stop %s", spec.Name)
			}
		}

		// Daemons launched via the fallback path are invisible to the
		// service manager, so sweep by process name pattern.
		if spec.KillPattern != "" {
			o.sleeper.Sleep(o.policy.StopGrace)
			if err := o.proc.KillPattern(ctx, spec.KillPattern); err != nil {
				logging.Debug("Orchestrator", "Terminate sweep for %s matched nothing: %v", spec.Name, err)
			}
		}

		o.transition(spec.Name, StateStopped, nil)
		logging.Info("Orchestrator", "Stopped service: %s", spec.Name)
	}

	return errors.Join(errs...)
}

// RestartAll is StopAll followed by StartAll over the same specs.
func (o *Orchestrator) RestartAll(ctx context.Context, specs []ServiceSpec) OrchestrationRun {
	if err := o.StopAll(ctx, specs); err != nil {
		logging.Warn("Orchestrator", "Stop phase reported errors, starting anyway: %v", err)
	}
	return o.StartAll(ctx, specs)
}

// CheckPorts reports bound/not-bound for each port. It is pure: no process
// is started or stopped and repeated calls with unchanged OS state yield
// identical reports.
func (o *Orchestrator) CheckPorts(ctx context.Context, ports []PortSpec) PortReport {
	report := PortReport{}
	for _, p := range ports {
		bound, err := o.ports.Listening(ctx, p.Port)
		if err != nil {
			logging.Debug("Orchestrator", "Port %d probe error, treating as unbound: %v", p.Port, err)
			bound = false
		}
		report.Ports = append(report.Ports, PortStatus{PortSpec: p, Bound: bound})
	}
	return report
}

// FixPorts short-circuits to a no-op success when every declared port is
// already bound; otherwise it performs StopAll followed by StartAll.
func (o *Orchestrator) FixPorts(ctx context.Context, specs []ServiceSpec) OrchestrationRun {
	report := o.CheckPorts(ctx, allPorts(specs))
	if report.AllBound() {
		logging.Info("Orchestrator", "All declared ports already bound, nothing to fix")
		return OrchestrationRun{Healthy: true, NoOp: true}
	}

	for _, p := range report.Unbound() {
		logging.Info("Orchestrator", "Port %d (%s) not bound, full restart required", p.Port, p.Label)
	}

	return o.RestartAll(ctx, specs)
}

// startService runs the per-service state machine:
// NotStarted → Starting → {Running, StartFailed}, and on StartFailed with a
// declared fallback: FallbackStarting → {Running, FallbackFailed}.
func (o *Orchestrator) startService(ctx context.Context, spec ServiceSpec) ServiceResult {
	began := time.Now()
	result := ServiceResult{Name: spec.Name, Essential: spec.Essential}

	finish := func(outcome Outcome, err error) ServiceResult {
		result.Outcome = outcome
		result.Elapsed = time.Since(began)
		result.Err = err
		if err != nil {
			result.ErrorDetail = err.Error()
		}
		return result
	}

	// Idempotence: an active unit with all ports bound needs no start.
	if active, err := o.mgr.IsActive(ctx, spec.Name); err == nil && active {
		if o.CheckPorts(ctx, spec.Ports).AllBound() {
			o.transition(spec.Name, StateRunning, nil)
			logging.Info("Orchestrator", "Service %s already running and bound", spec.Name)
			return finish(OutcomeAlreadyRunning, nil)
		}
		logging.Debug("Orchestrator", "Service %s active but ports missing, restarting", spec.Name)
	}

	o.transition(spec.Name, StateStarting, nil)

	err := o.startManaged(ctx, spec)
	if err == nil {
		o.transition(spec.Name, StateRunning, nil)
		logging.Info("Orchestrator", "Started service: %s", spec.Name)
		return finish(OutcomeRunning, nil)
	}

	o.transition(spec.Name, StateStartFailed, err)
	logging.Warn("Orchestrator", "Managed start of %s failed: %v", spec.Name, err)

	if spec.Fallback != nil {
		o.transition(spec.Name, StateFallbackStarting, nil)
		fbErr := o.startFallback(ctx, spec)
		if fbErr == nil {
			o.transition(spec.Name, StateRunning, nil)
			result.UsedFallback = true
			logging.Info("Orchestrator", "Started service %s via fallback launcher", spec.Name)
			return finish(OutcomeRunningFallback, nil)
		}
		o.transition(spec.Name, StateFallbackFailed, fbErr)
		result.UsedFallback = true
		err = fmt.Errorf("%w (primary: %v)", fbErr, err)
	}

	if spec.Essential {
		return finish(OutcomeAborted, &EssentialServiceError{Service: spec.Name, Err: err})
	}
	return finish(OutcomeOptionalFailed, &OptionalServiceError{Service: spec.Name, Err: err})
}

// startManaged issues enable+start through the service manager and polls
// for active state and bound ports.
func (o *Orchestrator) startManaged(ctx context.Context, spec ServiceSpec) error {
	if err := o.mgr.Enable(ctx, spec.Name); err != nil {
		// Enable failures are not fatal; a masked preset still starts.
		logging.Debug("Orchestrator", "Enable %s failed: %v", spec.Name, err)
	}
	if err := o.mgr.Start(ctx, spec.Name); err != nil {
		return fmt.Errorf("start request for %s: %w", spec.Name, err)
	}
	if err := o.waitActive(ctx, spec.Name); err != nil {
		return err
	}
	return o.waitPorts(ctx, spec.Ports)
}

// startFallback stops any partially-started managed instance, launches the
// daemon directly and re-runs the port poll against it.
func (o *Orchestrator) startFallback(ctx context.Context, spec ServiceSpec) error {
	if err := o.mgr.Stop(ctx, spec.Name); err != nil {
		logging.Debug("Orchestrator", "Stop of partial %s before fallback: %v", spec.Name, err)
	}
	if spec.KillPattern != "" {
		o.sleeper.Sleep(o.policy.StopGrace)
		if err := o.proc.KillPattern(ctx, spec.KillPattern); err != nil {
			logging.Debug("Orchestrator", "Pre-fallback sweep for %s: %v", spec.Name, err)
		}
	}

	if err := o.proc.Launch(ctx, spec.Fallback.Command, spec.Fallback.Args); err != nil {
		return fmt.Errorf("%w: launch %s: %v", ErrFallbackExhausted, spec.Fallback.Command, err)
	}
	if err := o.waitPorts(ctx, spec.Ports); err != nil {
		return fmt.Errorf("%w: %v", ErrFallbackExhausted, err)
	}
	return nil
}

// waitActive polls is-active at a fixed interval until the unit reports
// active or the start timeout budget is spent.
func (o *Orchestrator) waitActive(ctx context.Context, name string) error {
	attempts := int(o.policy.StartTimeout / o.policy.StartInterval)
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		active, err := o.mgr.IsActive(ctx, name)
		if err == nil && active {
			return nil
		}
		o.sleeper.Sleep(o.policy.StartInterval)
	}
	return fmt.Errorf("%w: %s after %s", ErrStartTimeout, name, o.policy.StartTimeout)
}

// waitPorts polls the declared ports with the fixed retry budget until all
// are observed bound.
func (o *Orchestrator) waitPorts(ctx context.Context, ports []PortSpec) error {
	if len(ports) == 0 {
		return nil
	}

	var lastUnbound []PortSpec
	for attempt := 0; attempt < o.policy.PortAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		report := o.CheckPorts(ctx, ports)
		if report.AllBound() {
			return nil
		}
		lastUnbound = report.Unbound()
		o.sleeper.Sleep(o.policy.PortInterval)
	}

	return fmt.Errorf("%w: %s", ErrPortNotBound, formatPorts(lastUnbound))
}

func (o *Orchestrator) transition(name string, state ServiceState, err error) {
	if o.reporter != nil {
		o.reporter.ServiceTransition(name, state, err)
	}
}

func allPorts(specs []ServiceSpec) []PortSpec {
	var out []PortSpec
	for _, s := range specs {
		out = append(out, s.Ports...)
	}
	return out
}

func formatPorts(ports []PortSpec) string {
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		if p.Label != "" {
			parts = append(parts, fmt.Sprintf("%d (%s)", p.Port, p.Label))
		} else {
			parts = append(parts, fmt.Sprintf("%d", p.Port))
		}
	}
	return strings.Join(parts, ", ")
}
