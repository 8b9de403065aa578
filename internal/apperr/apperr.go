// Package apperr defines the error taxonomy shared by the services and the
// HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

type Code string

const (
	NotFound         Code = "not_found"
	ValidationFailed Code = "validation_failed"
	AuthFailed       Code = "auth_failed"
	StorageFailure   Code = "storage_failure"
)

// HTTPStatus maps a code to the status used by pages and the JSON API.
func (c Code) HTTPStatus() int {
	switch c {
	case NotFound:
		return http.StatusNotFound
	case ValidationFailed:
		return http.StatusBadRequest
	case AuthFailed:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a code, a user-facing message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// CodeOf returns the code of the first *Error in the chain, or StorageFailure
// for anything unclassified.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return StorageFailure
}

// Message returns the user-facing message for err. Unclassified errors get a
// generic message so storage details never reach the page.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != StorageFailure {
		return e.Message
	}
	return "something went wrong, please try again"
}
