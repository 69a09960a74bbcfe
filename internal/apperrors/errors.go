package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into the API's stable failure taxonomy.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindUnauthenticated
	KindValidation
	KindConflict
	KindUpstream
)

// Error carries a taxonomy kind and a human-readable message. The message is
// what reaches the caller; internal detail stays in the wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Validation(msg string) *Error      { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }

// Upstream wraps a persistence or identity-provider failure. The wrapped error
// is logged server-side only.
func Upstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, cause: cause}
}

// From extracts an *Error, wrapping unknown errors as Upstream so callers
// always get a stable status and message.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Upstream("internal server error", err)
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
