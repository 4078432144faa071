package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrDispatcherStopped indicates the dispatcher has been closed.
	ErrDispatcherStopped = errors.New("dispatcher: dispatcher is stopped")

	// ErrActionCancelled indicates a matched action was vetoed by a hook.
	ErrActionCancelled = errors.New("dispatcher: action cancelled by hook")
)
