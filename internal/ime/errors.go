package ime

import "errors"

// Sentinel errors for IME operations.
var (
	// ErrMalformedDelta indicates a delta that cannot apply to its old text.
	ErrMalformedDelta = errors.New("malformed text editing delta")

	// ErrNotAttached indicates that no platform connection is attached.
	ErrNotAttached = errors.New("ime not attached")

	// ErrDesync indicates that the flat serialization no longer matches the
	// document.
	ErrDesync = errors.New("ime serialization out of sync with document")

	// ErrUnknownPlatform indicates an unrecognized platform name.
	ErrUnknownPlatform = errors.New("unknown platform")
)
