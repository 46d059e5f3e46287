package catalog

import "errors"

var (
	// ErrNotFound is returned by update paths when no record carries the
	// requested id. Delete paths treat a missing record as success instead.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateTitle rejects a category title already taken by another
	// category, compared case-insensitively.
	ErrDuplicateTitle = errors.New("a category with this title already exists")

	// ErrTitleRequired rejects an empty category title.
	ErrTitleRequired = errors.New("category title is required")
)
