package script

import "errors"

// Errors for script loading and execution.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoReactFunction indicates a reaction script did not define react.
	ErrNoReactFunction = errors.New("script does not define a react function")

	// ErrTimeout indicates a script ran past its execution timeout.
	ErrTimeout = errors.New("lua execution timeout")
)
