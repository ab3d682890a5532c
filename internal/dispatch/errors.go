package dispatch

import (
	"fmt"
	"strings"
)

// MissingFieldError signals that a required request parameter is absent or
// blank. It is raised before any handler-specific rule runs.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// ValidationError carries the ordered list of business-rule violations found
// by a handler. Dispatch stops here; execute is never reached.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Violations, "; "))
}

// UnsupportedDiscriminantError signals that a discriminant has no registered
// handler. Always a client-side mistake, never transient.
type UnsupportedDiscriminantError struct {
	Kind  string
	Value string
}

func (e *UnsupportedDiscriminantError) Error() string {
	return fmt.Sprintf("%s %q is not currently supported", e.Kind, e.Value)
}

// ProcessingError represents a simulated downstream failure (insufficient
// funds, network congestion, provider outage). Terminal for the current call;
// the core never retries.
type ProcessingError struct {
	Reason string
}

func (e *ProcessingError) Error() string {
	return e.Reason
}
