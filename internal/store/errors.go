package store

import "errors"

var (
	// ErrNotFound signals a record, note, or file that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrCorruptStore signals an on-disk document blob that cannot be parsed.
	ErrCorruptStore = errors.New("corrupt document store")
	// ErrNotLoaded signals use of the store before Load has run. Callers
	// treat this as an unexpected state, not a business failure.
	ErrNotLoaded = errors.New("document store not loaded")
)
