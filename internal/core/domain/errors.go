package domain

import (
	"errors"
)

// Error kinds. Every failure surfaced by the core wraps exactly one of these
// so the HTTP boundary can map it to a status code with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")

	// ErrRefreshTokenMismatch is returned by the store when a compare-and-swap
	// on the refresh-token slot finds a value other than the expected one.
	ErrRefreshTokenMismatch = errors.New("refresh token mismatch")
)

// Error is a classified failure with a message that is safe to show clients.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Invalid(msg string) error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrUserExists, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: ErrUserNotFound, Message: msg}
}

func Unauthorized(msg string) error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// Internal wraps an infrastructure failure. The cause is kept for logging and
// never rendered to clients.
func Internal(msg string, cause error) error {
	return &Error{Kind: ErrInternal, Message: msg, Err: cause}
}
