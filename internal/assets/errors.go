package assets

import "errors"

var (
	// ErrListNotFound is returned when the object list source does not exist
	ErrListNotFound = errors.New("object list not found")

	// ErrEmptyList is returned when the object list contains no entries
	ErrEmptyList = errors.New("object list is empty")

	// ErrNoUsableAssets is returned when no entry resolves to an existing local file
	ErrNoUsableAssets = errors.New("no usable assets resolved")
)
