// Package apperr provides standardized domain error types for the application.
// Core services return these typed errors so callers can render a rejection,
// and the HTTP adapter maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindValidation indicates invalid input data. Recoverable by retrying with corrected input.
	KindValidation
	// KindForbidden indicates the principal lacks the capability for the action.
	KindForbidden
	// KindUnauthorized indicates no authenticated session is present.
	KindUnauthorized
	// KindInvalidCredentials indicates a rejected login attempt.
	KindInvalidCredentials
	// KindInvalidTransition indicates a lead stage change outside the funnel edges.
	KindInvalidTransition
	// KindAlreadyCompleted indicates a second completion of a follow-up.
	KindAlreadyCompleted
	// KindBusy indicates an operation was rejected because an equivalent one is pending.
	KindBusy
	// KindBadRequest indicates a malformed request.
	KindBadRequest
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindNotFound:           "not_found",
	KindValidation:         "validation",
	KindForbidden:          "forbidden",
	KindUnauthorized:       "unauthorized",
	KindInvalidCredentials: "invalid_credentials",
	KindInvalidTransition:  "invalid_transition",
	KindAlreadyCompleted:   "already_completed",
	KindBusy:               "busy",
	KindBadRequest:         "bad_request",
	KindInternal:           "internal",
}

// String returns a stable snake_case label for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindInvalidTransition, KindAlreadyCompleted:
		return http.StatusConflict
	case KindBusy:
		return http.StatusTooManyRequests
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the operation on the error and returns it.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails sets additional details on the error and returns it.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors for common error types.

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Forbidden creates a forbidden error.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// Unauthorized creates an unauthorized error.
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// InvalidCredentials creates a login rejection. The message never says which
// half of the credential pair was wrong.
func InvalidCredentials() *Error {
	return New(KindInvalidCredentials, "invalid credentials")
}

// InvalidTransition creates a stage transition error.
func InvalidTransition(message string) *Error {
	return New(KindInvalidTransition, message)
}

// AlreadyCompleted creates an already-completed error.
func AlreadyCompleted(message string) *Error {
	return New(KindAlreadyCompleted, message)
}

// Busy creates a busy error.
func Busy(message string) *Error {
	return New(KindBusy, message)
}

// BadRequest creates a bad request error.
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// Internal creates an internal server error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the error kind from an error chain.
// Returns KindUnknown if no *Error is found.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err wraps an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && GetKind(err) == kind
}
