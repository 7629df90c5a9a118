// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-ring.
//
// Empty and full are not errors: they are reported through ok flags and
// counts. Errors describe closure, timeouts, pending futures and invalid
// configuration. Contract violations panic.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	// ErrClosed reports that the opposite side of the ring is gone and no
	// further progress is possible.
	ErrClosed = errors.New("ring: opposite side closed")
	// ErrPending is returned by a future that cannot complete yet; its waker
	// has been registered.
	ErrPending = errors.New("ring: operation pending")
	// ErrTimeout reports that a deadline passed before any progress was made.
	ErrTimeout = errors.New("ring: operation timeout")
	// ErrInvalidArgument reports a rejected configuration value.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeTimeout
	ErrCodeClosed
	ErrCodeNotFound
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap maps the code to the matching sentinel so errors.Is works.
func (e *Error) Unwrap() error {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	case ErrCodeTimeout:
		return ErrTimeout
	case ErrCodeClosed:
		return ErrClosed
	default:
		return nil
	}
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
