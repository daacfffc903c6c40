package store

import (
	"fmt"
	"net/http"
)

// Error is a persistence failure the API can map straight to a status.
type Error struct {
	Code    int // HTTP status
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same status, so wrapped copies of the
// sentinels below still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// HTTPCode returns the status associated with the error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a copy with a different user-facing message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Code: e.Code, Message: msg, Err: e.Err}
}

// WithCause returns a copy wrapping the driver error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Err: err}
}

var (
	// ErrNotFound covers a missing row and a row owned by another user.
	ErrNotFound = &Error{Code: http.StatusNotFound, Message: "record not found"}

	// ErrAlreadyExists is returned when a unique key is taken.
	ErrAlreadyExists = &Error{Code: http.StatusConflict, Message: "record already exists"}
)
