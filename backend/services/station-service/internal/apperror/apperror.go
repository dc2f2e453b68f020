// Package apperror defines the typed error carried from services to the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an application failure with the HTTP status it maps to.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds an Error with the given status.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap builds an Error that keeps cause for logging; cause is never shown to clients.
func Wrap(status int, message string, cause error) *Error {
	return &Error{Status: status, Message: message, Err: cause}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message) }
func Forbidden(message string) *Error    { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message) }

// Conflict reports a uniqueness violation. The API surfaces these as 400.
func Conflict(message string) *Error { return New(http.StatusBadRequest, message) }

// Internal wraps an unexpected failure.
func Internal(cause error) *Error {
	return Wrap(http.StatusInternalServerError, "Internal server error", cause)
}

// From extracts an *Error from err, mapping anything untyped to Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
