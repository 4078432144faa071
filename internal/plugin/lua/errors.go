package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrInvalidDefinition is returned when a keycmd.action or keycmd.group
	// table is missing required fields.
	ErrInvalidDefinition = errors.New("invalid lua definition")
)
