// Package errs defines the two error kinds every engine operation can
// fail with: InputError for malformed or non-existent identifiers and
// content, AccessError for invalid credentials or missing authorization.
//
// Precedence policy: when an operation detects both kinds at once, the
// AccessError wins. Engines encode that ordering at each check site; see
// pkg/admin for the canonical example.
package errs

import "errors"

// Kind discriminates the two failure classes surfaced to callers.
type Kind int

const (
	KindInput Kind = iota + 1
	KindAccess
)

// Error is an engine failure with a kind and a human-readable description.
type Error struct {
	Kind Kind
	Desc string
}

func (e *Error) Error() string { return e.Desc }

// Input returns an InputError with the given description.
func Input(desc string) error { return &Error{Kind: KindInput, Desc: desc} }

// Access returns an AccessError with the given description.
func Access(desc string) error { return &Error{Kind: KindAccess, Desc: desc} }

// IsInput reports whether err is an InputError.
func IsInput(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindInput
}

// IsAccess reports whether err is an AccessError.
func IsAccess(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAccess
}
