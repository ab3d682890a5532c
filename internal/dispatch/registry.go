// Package dispatch provides the shared method-to-handler resolution core used
// by the payment and notification services: a read-only registry from a closed
// discriminant set to handler values, the validation/execution value objects,
// the error taxonomy, and the injectable randomness seam for failure
// simulation.
package dispatch

import "fmt"

// Registry maps a closed set of discriminant values to handler
// implementations. It is built once at startup and read-only afterwards, so
// concurrent lookups need no locking.
type Registry[D comparable, H any] struct {
	kind     string
	handlers map[D]H
}

// NewRegistry builds a registry for the declared discriminant set. It fails
// fast when a declared discriminant has no handler or an entry references an
// undeclared discriminant, so an incomplete wiring is caught at startup
// instead of on the first unlucky request.
func NewRegistry[D comparable, H any](kind string, declared []D, entries map[D]H) (*Registry[D, H], error) {
	known := make(map[D]struct{}, len(declared))
	for _, d := range declared {
		known[d] = struct{}{}
		if _, ok := entries[d]; !ok {
			return nil, fmt.Errorf("registry %s: no handler registered for %v", kind, d)
		}
	}

	handlers := make(map[D]H, len(entries))
	for d, h := range entries {
		if _, ok := known[d]; !ok {
			return nil, fmt.Errorf("registry %s: handler registered for undeclared discriminant %v", kind, d)
		}
		handlers[d] = h
	}

	return &Registry[D, H]{kind: kind, handlers: handlers}, nil
}

// Resolve returns the handler registered for the given discriminant.
func (r *Registry[D, H]) Resolve(d D) (H, error) {
	h, ok := r.handlers[d]
	if !ok {
		var zero H
		return zero, &UnsupportedDiscriminantError{Kind: r.kind, Value: fmt.Sprintf("%v", d)}
	}
	return h, nil
}

// Discriminants returns the registered discriminant values, in no particular
// order.
func (r *Registry[D, H]) Discriminants() []D {
	out := make([]D, 0, len(r.handlers))
	for d := range r.handlers {
		out = append(out, d)
	}
	return out
}
