// Package apperr defines the error taxonomy shared by all use cases.
// Handlers map kinds to transport status codes; the core never does.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Adapters branch on Kind, never on message text.
type Kind int

const (
	// KindInternal is a store, signing, or other infrastructure failure.
	// It must propagate distinctly from KindAuthentication so outages are
	// never mistaken for bad credentials.
	KindInternal Kind = iota
	// KindValidation is malformed input, 1:1 with a rejected field.
	KindValidation
	// KindAuthentication is bad credentials or an invalid, expired, or
	// revoked token or session. The message never reveals which.
	KindAuthentication
	// KindConflict is a uniqueness violation (duplicate email).
	KindConflict
	// KindNotFound is a referenced entity that does not exist.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a kinded error. Wrapped causes are preserved for logging but
// are not part of the caller-facing contract.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error for a rejected field.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Authentication returns a KindAuthentication error. msg is a generic
// caller-facing message; never put the failing check in it.
func Authentication(msg string) *Error {
	return &Error{Kind: KindAuthentication, Msg: msg}
}

// Conflict returns a KindConflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// NotFound returns a KindNotFound error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Internal wraps an infrastructure failure.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf returns the Kind of err. Unclassified errors are KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
