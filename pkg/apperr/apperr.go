package apperr

import (
	"errors"
	"net/http"
)

// Error is a domain failure carrying the HTTP status it should surface with.
// The Message is safe to show to clients; Err keeps the internal cause for
// logs and is never serialized.
type Error struct {
	Status  int
	Message string
	Err     error
	// Details carries per-field validation messages, when present.
	Details map[string]string
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error with an explicit status.
func New(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// Validation marks malformed or incomplete request input (422).
func Validation(message string, err error) *Error {
	return New(http.StatusUnprocessableEntity, message, err)
}

// WithDetails attaches per-field messages to the error.
func (e *Error) WithDetails(details map[string]string) *Error {
	e.Details = details
	return e
}

// Authentication marks a missing or unverifiable identity (403).
func Authentication(message string, err error) *Error {
	return New(http.StatusForbidden, message, err)
}

// NotAuthorized marks an authenticated caller acting on a resource it does
// not own (401, matching the upstream API contract).
func NotAuthorized(message string) *Error {
	return New(http.StatusUnauthorized, message, nil)
}

// NotFound marks a lookup miss (404).
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message, nil)
}

// Transaction marks a multi-row write that could not be committed (500).
func Transaction(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// Internal is the default wrapper for unexpected failures (500).
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// From extracts an *Error from err's chain, or wraps err as Internal with a
// generic message so no internal detail leaks to clients.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal("an unknown error occurred", err)
}
