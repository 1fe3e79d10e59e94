package domain

import (
	"errors"
	"fmt"
)

// Domain errors returned by the public API, checkable with errors.Is.
var (
	// ErrUnknownPattern is returned for a pattern name with no generator.
	ErrUnknownPattern = errors.New("vacballet: unknown pattern")

	// ErrInvalidConfig is returned when configuration validation fails,
	// including pattern parameter preconditions (e.g. too few steps).
	ErrInvalidConfig = errors.New("vacballet: invalid configuration")

	// ErrNotConnected is returned when a command is issued on a
	// disconnected transport.
	ErrNotConnected = errors.New("vacballet: not connected")
)

// DispatchError reports a failed goto dispatch. It identifies the waypoint
// index and target so the caller can see exactly where the routine stopped.
type DispatchError struct {
	Waypoint int
	Target   Point
	Err      error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch waypoint %d at %s: %v", e.Waypoint, e.Target, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *DispatchError) Unwrap() error {
	return e.Err
}
