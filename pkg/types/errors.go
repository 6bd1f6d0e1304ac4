package types

import "errors"

// Store operation errors.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidID         = errors.New("invalid entity ID")
	ErrInvalidData       = errors.New("invalid entity data")
	ErrUnknownKind       = errors.New("unknown entity kind")
	ErrFreeNoteProtected = errors.New("free note cannot be deleted")
)

// Store lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrReadOnly        = errors.New("store is opened read-only")
)
