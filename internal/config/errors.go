package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting holds an unusable value.
	ErrValidationFailed = errors.New("config: validation failed")

	// ErrInvalidEnv indicates a KEYCMD_* variable could not be parsed.
	ErrInvalidEnv = errors.New("config: invalid environment variable")
)
