package action

import "errors"

// Registry errors.
var (
	// ErrActionNotFound indicates an unregister of an unknown action id.
	ErrActionNotFound = errors.New("action: action not registered")

	// ErrGroupNotFound indicates an unregister of an unknown group id.
	ErrGroupNotFound = errors.New("action: group not registered")

	// ErrDefaultGroup indicates an attempt to remove the built-in group.
	ErrDefaultGroup = errors.New("action: the default group cannot be removed")
)
