package palette

import "errors"

// Session errors.
var (
	// ErrNotOpen indicates an operation on a closed session.
	ErrNotOpen = errors.New("palette: session is not open")

	// ErrGroupDisabled indicates an attempt to switch into a disabled group.
	ErrGroupDisabled = errors.New("palette: group is disabled")
)
