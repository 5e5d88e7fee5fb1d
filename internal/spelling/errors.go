package spelling

import "errors"

// Worker pool errors.
var (
	// ErrAlreadyRunning indicates Start was called on a running reaction.
	ErrAlreadyRunning = errors.New("spelling reaction already running")

	// ErrNotRunning indicates the worker pool has not been started.
	ErrNotRunning = errors.New("spelling reaction not running")

	// ErrQueueFull indicates a check was dropped because every queue slot
	// was taken.
	ErrQueueFull = errors.New("spelling queue full")
)
