// Package domainerrors provides coded domain errors shared across all
// reqforge modules.
//
// Domain errors carry a stable machine-readable Code plus a human-readable
// message. Services construct them with New or Wrap; transport layers
// translate codes to HTTP statuses; callers branch with HasCode instead of
// string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a category of domain error.
type Code string

// Supported error codes.
const (
	// CodeValidation: a value object, entity, or aggregate rejected its
	// construction-time invariants (blank name, out-of-range score,
	// malformed identifier, bounded-context mismatch).
	CodeValidation Code = "validation"
	// CodeInvalidInput: external input failed parsing at a trust boundary.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest: a malformed request body or parameter.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound: the referenced resource does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict: the operation conflicts with existing state.
	CodeConflict Code = "conflict"
	// CodeUnauthorized: missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden: authenticated but not allowed.
	CodeForbidden Code = "forbidden"
	// CodeInvariantViolation: a domain invariant would be broken by a state
	// transition (distinct from construction-time CodeValidation).
	CodeInvariantViolation Code = "invariant_violation"
	// CodeTimeout: a collaborator did not answer in time.
	CodeTimeout Code = "timeout"
	// CodeInternal: unexpected failure; details stay server-side.
	CodeInternal Code = "internal"
)

// Error is a domain error with a stable code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

// New constructs a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap annotates err with a code and message while preserving the cause for
// errors.Is/As chains. Returns nil if err is nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to the errors package.
func (e *Error) Unwrap() error {
	return e.cause
}

// HasCode reports whether err or anything in its chain is a domain error
// carrying the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	return de.Code == code
}

// CodeOf returns the code of the first domain error in the chain, or
// CodeInternal when err is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Is allows comparison against a bare *Error with only a code set, so
// errors.Is(err, &Error{Code: CodeNotFound}) works in tests.
func (e *Error) Is(target error) bool {
	var te *Error
	if !errors.As(target, &te) {
		return false
	}
	return te.Message == "" && te.Code == e.Code || te.Code == e.Code && te.Message == e.Message
}
