// Package apperr defines the error kinds shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidState    = errors.New("invalid state")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrProcessing      = errors.New("processing failed")
	ErrUnauthorized    = errors.New("unauthorized")
)

// Error carries a caller-facing message while unwrapping to its kind,
// so errors.Is matches both the kind and any sentinel built on it.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

// New returns an error with the given message that unwraps to kind.
func New(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return New(ErrNotFound, format, args...)
}

func InvalidArgument(format string, args ...any) error {
	return New(ErrInvalidArgument, format, args...)
}

func InvalidState(format string, args ...any) error {
	return New(ErrInvalidState, format, args...)
}

// Processing wraps a cause from an export or storage step.
func Processing(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg = msg + ": " + cause.Error()
	}
	return &Error{Kind: ErrProcessing, Msg: msg}
}
