package document

import "errors"

// Errors returned by document operations.
var (
	// ErrNodeNotFound indicates that no node with the given id exists.
	ErrNodeNotFound = errors.New("node not found")

	// ErrIndexOutOfRange indicates a node index outside the document.
	ErrIndexOutOfRange = errors.New("node index out of range")
)
