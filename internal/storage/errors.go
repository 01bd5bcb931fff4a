package storage

import "errors"

var (
	// ErrNotFound is returned when a single-row lookup matches zero rows.
	ErrNotFound = errors.New("record not found")

	// ErrAmbiguousResult is returned when a single-row lookup matches more
	// than one row. Should not occur given primary key uniqueness.
	ErrAmbiguousResult = errors.New("ambiguous result: multiple rows matched")
)
