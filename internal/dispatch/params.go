package dispatch

import "strings"

// Params is the free-form key-value bag of method-specific request
// parameters. It is created by the caller and consumed by exactly one
// handler; handlers never mutate it.
type Params map[string]string

// Require returns the value for key, or a MissingFieldError when the key is
// absent or blank.
func (p Params) Require(key string) (string, error) {
	v, ok := p[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", &MissingFieldError{Field: key}
	}
	return v, nil
}

// RequireValue checks a named request field that lives outside the parameter
// bag, with the same blank handling as Params.Require.
func RequireValue(field, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", &MissingFieldError{Field: field}
	}
	return value, nil
}
