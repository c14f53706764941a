package chat

import (
	"errors"

	"github.com/newthinker/chatrelay/internal/core"
)

// Kind classifies orchestrator failures.
type Kind int

const (
	KindUpstreamFailure Kind = iota
	KindUnauthorized
	KindBadConfig
)

// String returns the label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindBadConfig:
		return "bad_config"
	default:
		return "upstream_failure"
	}
}

// Error is returned by Service for every failed call.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

// Detail returns the message shown to callers.
func (e *Error) Detail() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// classify maps config and provider errors onto the orchestrator kinds.
func classify(err error) *Error {
	var chatErr *Error
	if errors.As(err, &chatErr) {
		return chatErr
	}

	kind := KindUpstreamFailure
	switch {
	case errors.Is(err, core.ErrMissingCredentials):
		kind = KindUnauthorized
	case errors.Is(err, core.ErrInvalidConfig):
		kind = KindBadConfig
	}

	message := err.Error()
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		message = coreErr.Detail()
	}
	if kind == KindUpstreamFailure && !errors.Is(err, core.ErrProvider) {
		message = core.WrapError(core.ErrProvider, err).Detail()
	}

	return &Error{Kind: kind, Message: message, Err: err}
}
