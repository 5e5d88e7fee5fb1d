package attributed

import "errors"

// Errors returned by attribution operations.
var (
	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = errors.New("invalid range")

	// ErrOffsetOutOfRange indicates an offset outside the text.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrIncompatibleOverlap indicates two spans with the same attribution ID
	// that cannot merge would overlap.
	ErrIncompatibleOverlap = errors.New("incompatible attributions overlap")
)
