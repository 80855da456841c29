// Package apperrors defines the closed set of application error kinds and the
// HTTP status each one maps to. Workflow services return these; the HTTP layer
// renders them in one place.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind identifies the category of an application error.
type Kind int

const (
	// KindValidation covers malformed or policy-violating input.
	KindValidation Kind = iota
	// KindConflict covers uniqueness violations (email, phone).
	KindConflict
	// KindAuth covers missing or invalid credentials and tokens.
	KindAuth
	// KindForbidden covers authenticated but not permitted requests.
	KindForbidden
	// KindNotFound covers references to absent entities.
	KindNotFound
	// KindServer covers unexpected infrastructure failures.
	KindServer
)

// Error is a typed application error carrying a stable HTTP status, a
// human-readable message and, for validation errors, a per-rule list.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Validation builds a validation error. The optional fields list carries every
// violated rule, not just the first.
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Conflict builds a uniqueness-violation error naming the colliding field.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Auth builds an authentication error.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Forbidden builds an authorization error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound builds a missing-entity error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Server wraps an unexpected failure. The cause is kept for logging but never
// rendered to clients in production.
func Server(message string, cause error) *Error {
	return &Error{Kind: KindServer, Message: message, cause: cause}
}

// From extracts an *Error from err, or wraps err as a server error so that
// every failure reaching the HTTP layer has a status and message.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Server("internal server error", err)
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
