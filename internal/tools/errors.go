package tools

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyName is returned when a tool is registered without a name.
	ErrEmptyName = errors.New("tool name is required")
	// ErrInvalidName is returned for names that cannot be used as a route key.
	ErrInvalidName = errors.New("invalid tool name")
	// ErrDuplicateTool is returned when two tools share a name.
	ErrDuplicateTool = errors.New("duplicate tool")
	// ErrReservedName is returned for names that collide with a built-in route.
	ErrReservedName = errors.New("reserved tool name")
	// ErrNoHandler is returned for a tool built without a handler.
	ErrNoHandler = errors.New("tool has no handler")
	// ErrUnsupportedValue is returned by Encode for values outside the
	// encodable set.
	ErrUnsupportedValue = errors.New("unsupported value")
	// ErrConflictingEnvelope is returned for an envelope carrying both a
	// status and an error.
	ErrConflictingEnvelope = errors.New("envelope has both status and error")
)

// DecodeError reports a request body that does not match a tool's
// argument type.
type DecodeError struct {
	Field  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }
