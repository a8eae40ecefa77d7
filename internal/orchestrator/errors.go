package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrStartTimeout means the service manager never reported the unit
	// active within the start budget.
	ErrStartTimeout = errors.New("service did not become active within the start timeout")

	// ErrPortNotBound means one or more declared ports were never observed
	// listening within the port poll budget.
	ErrPortNotBound = errors.New("declared port not bound")

	// ErrFallbackExhausted means the direct fallback launch also failed to
	// produce a bound service.
	ErrFallbackExhausted = errors.New("fallback launcher exhausted")
)

// EssentialServiceError aborts a run: an essential service could not be
// brought up and later services were never attempted.
type EssentialServiceError struct {
	Service string
	Err     error
}

func (e *EssentialServiceError) Error() string {
	return fmt.Sprintf("essential service %s failed: %v", e.Service, e.Err)
}

func (e *EssentialServiceError) Unwrap() error { return e.Err }

// OptionalServiceError is recorded in the run result for a non-essential
// service that failed; the run continues past it.
type OptionalServiceError struct {
	Service string
	Err     error
}

func (e *OptionalServiceError) Error() string {
	return fmt.Sprintf("optional service %s failed: %v", e.Service, e.Err)
}

func (e *OptionalServiceError) Unwrap() error { return e.Err }
