// internal/core/errors_test.go
package core

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message"}
	if err.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_Detail(t *testing.T) {
	err := WrapError(ErrProvider, errors.New("connection refused"))
	if got := err.Detail(); got != "Groq model call failed: connection refused" {
		t.Errorf("unexpected detail: %s", got)
	}
	if got := ErrUnauthorized.Detail(); got != "Invalid or missing X-API-KEY" {
		t.Errorf("unexpected detail: %s", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: "WRAP", Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should return cause")
	}
}

func TestError_Is(t *testing.T) {
	if !errors.Is(ErrProvider, ErrProvider) {
		t.Error("same error should match")
	}
	if errors.Is(ErrInvalidConfig, ErrMissingCredentials) {
		t.Error("different codes should not match")
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("original")
	wrapped := WrapError(ErrProvider, cause)
	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
	if wrapped.Code != ErrProvider.Code {
		t.Error("code not preserved")
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(ErrInvalidConfig, "Invalid %s value: %s", "GROQ_TEMPERATURE", "abc")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("expected code to match ErrInvalidConfig")
	}
	if err.Detail() != "Invalid GROQ_TEMPERATURE value: abc" {
		t.Errorf("unexpected detail: %s", err.Detail())
	}
}
