package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrClosed indicates the engine has been closed.
	ErrClosed = errors.New("engine is closed")

	// ErrSpellingDisabled indicates spell checking was not configured.
	ErrSpellingDisabled = errors.New("spelling is disabled")
)
