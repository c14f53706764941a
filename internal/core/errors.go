// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Detail returns the human-readable form of the error, without the code.
func (e *Error) Detail() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Errorf creates a new error with the code of base and a formatted message
// replacing the default one.
func Errorf(base *Error, format string, args ...any) *Error {
	return &Error{
		Code:    base.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Predefined errors
var (
	// Config errors
	ErrMissingCredentials = &Error{Code: "MISSING_CREDENTIALS", Message: "provider credentials missing"}
	ErrInvalidConfig      = &Error{Code: "INVALID_CONFIG", Message: "configuration invalid"}

	// Service auth errors
	ErrUnauthorized = &Error{Code: "UNAUTHORIZED", Message: "Invalid or missing X-API-KEY"}

	// Provider errors
	ErrProvider = &Error{Code: "PROVIDER_FAILED", Message: "Groq model call failed"}
)
