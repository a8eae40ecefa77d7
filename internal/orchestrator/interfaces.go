package orchestrator

import (
	"context"
	"time"
)

// ServiceManager is the OS service-control surface (systemctl in
// production). The orchestrator sequences calls against it and never
// reimplements its behavior.
type ServiceManager interface {
	Enable(ctx context.Context, name string) error
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	IsActive(ctx context.Context, name string) (bool, error)
}

// PortChecker reports whether a TCP port on the local host has a listening
// socket. Implementations must be side-effect free.
type PortChecker interface {
	Listening(ctx context.Context, port int) (bool, error)
}

// ProcessRunner launches fallback daemons directly and performs the
// forced-terminate sweep for daemons without clean shutdown hooks.
type ProcessRunner interface {
	Launch(ctx context.Context, command string, args []string) error
	KillPattern(ctx context.Context, pattern string) error
}

// Reporter receives per-service state transitions as the run progresses.
// The zero implementation (nil) is valid and silently discards them.
type Reporter interface {
	ServiceTransition(name string, state ServiceState, err error)
}

// Sleeper abstracts the fixed-interval waits so tests can run the polling
// loops against a fake clock.
type Sleeper interface {
	Sleep(d time.Duration)
}

type realSleeper struct{}

func (realSleeper) Sleep(d time.Duration) { time.Sleep(d) }
