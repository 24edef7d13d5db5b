package types

import "errors"

// Error kinds surfaced by the storage layer. Callers test with errors.Is or
// through Result.Kind.
var (
	// ErrIO means the store could not be created or opened, or a filesystem
	// entry could not be read.
	ErrIO = errors.New("storage i/o failure")

	// ErrConstraint means a uniqueness, check or foreign-key rule rejected
	// the write.
	ErrConstraint = errors.New("constraint violation")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")
)

// Input errors.
var (
	ErrInvalidName = errors.New("invalid name")
	ErrInvalidID   = errors.New("invalid entity ID")
)

// ErrDetached is returned when an operation runs on a closed Backend handle
// that cannot be reopened.
var ErrDetached = errors.New("backend is detached")
