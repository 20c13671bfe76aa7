package core

import "errors"

// Conversion errors. Pattern misses inside a document are not errors;
// they leave the affected field empty.
var (
	// ErrInvalidInput indicates the document is empty or not HTML.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoStore indicates persist mode was requested without a content store.
	ErrNoStore = errors.New("no content store configured")

	// ErrIDNotReplaced indicates an id swap found no entity to update.
	// The city graph is inconsistent for that entity.
	ErrIDNotReplaced = errors.New("id not replaced in city")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
