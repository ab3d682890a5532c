package dispatch

// ValidationResult is the immutable outcome of a handler's Validate call.
// Invariant: Valid implies Errors is empty, and vice versa. Use OK and Failed
// to construct results so the invariant holds.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// OK returns a successful validation result.
func OK() ValidationResult {
	return ValidationResult{Valid: true}
}

// Failed returns a failed validation result carrying the ordered list of
// violations. It panics if no violations are given, since a failure without a
// reason breaks the invariant.
func Failed(violations ...string) ValidationResult {
	if len(violations) == 0 {
		panic("dispatch: failed validation result requires at least one violation")
	}
	errs := make([]string, len(violations))
	copy(errs, violations)
	return ValidationResult{Valid: false, Errors: errs}
}

// Err converts a failed result into the typed error the dispatching services
// surface to callers. Returns nil for a valid result.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Violations: r.Errors}
}
