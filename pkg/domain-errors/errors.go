// Package domainerrors provides coded errors for the service layer. Services
// translate store and transport failures into these before they reach the HTTP
// boundary, which maps codes to status lines without leaking internal detail.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure. Codes are part of the wire contract: they
// appear verbatim in the JSON error envelope.
type Code string

const (
	// CodeBadRequest marks input that was present but failed domain validation.
	CodeBadRequest Code = "bad_request"
	// CodeUnprocessable marks a request whose required fields were structurally absent.
	CodeUnprocessable Code = "unprocessable"
	// CodeUnauthorized marks a request presenting an unknown confirmation token.
	CodeUnauthorized Code = "unauthorized"
	// CodeInternal marks any failure the client cannot correct.
	CodeInternal Code = "internal_error"
)

// Error carries a code, a human-readable message, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the chain
// for errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// CodeOf returns the code of err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is a readability alias for HasCode used at call sites that branch on codes.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// Message returns the client-safe message of err, or an empty string when err
// is not a coded error.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
