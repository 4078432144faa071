package app

import "errors"

// Application errors.
var (
	// ErrClosed is returned by operations on a shut-down application.
	ErrClosed = errors.New("app: application closed")
)

// InitError reports which component failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
