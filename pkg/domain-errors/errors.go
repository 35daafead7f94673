// Package dErrors defines the coded error type shared by services and
// handlers. Stores return sentinel errors (pkg/platform/sentinel) for
// infrastructure facts; services translate those into coded errors so the
// transport layer can map every failure to a precise HTTP status without
// inspecting error strings.
package dErrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure. Codes are part of the API contract: handlers
// serialize them verbatim into the error envelope.
type Code string

const (
	// CodeValidation marks malformed or missing caller input. User-correctable.
	CodeValidation Code = "validation"
	// CodeBadRequest marks requests that could not be parsed at all.
	CodeBadRequest Code = "bad_request"
	// CodeInvalidState marks an operation that is not legal from the entity's
	// current lifecycle state.
	CodeInvalidState Code = "invalid_state"
	// CodeConflict marks a lost race: the entity changed between read and
	// conditional write. Retrying is the caller's decision.
	CodeConflict Code = "conflict"
	// CodeNotFound marks an unknown entity reference.
	CodeNotFound Code = "not_found"
	// CodeForbidden marks an authenticated actor whose role lacks the
	// capability for the operation.
	CodeForbidden Code = "forbidden"
	// CodeUnauthorized marks a request with no resolvable actor or role.
	CodeUnauthorized Code = "unauthorized"
	// CodeUnavailable marks a persistence or collaborator failure. Propagated,
	// never swallowed.
	CodeUnavailable Code = "unavailable"
	// CodeInvariantViolation marks a domain invariant breach detected inside
	// a model. Services normally translate it into a caller-facing code.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal is the fallback for unexpected failures.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. The zero value is not meaningful; construct
// with New, Newf, or Wrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a coded error with a static message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf constructs a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/As chains.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var coded *Error
	for errors.As(err, &coded) {
		if coded.Code == code {
			return true
		}
		err = coded.cause
		coded = nil
	}
	return false
}

// CodeOf extracts the outermost code, or CodeInternal when err is not coded.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}
