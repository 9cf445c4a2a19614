package domain

import "errors"

var (
	// ErrNotFound covers unknown cities/segments and missing records.
	ErrNotFound = errors.New("not found")

	// ErrSuperseded marks a resolution that lost to a newer query and was
	// discarded without committing.
	ErrSuperseded = errors.New("resolution superseded")

	// ErrInvalidQuery rejects malformed user queries (too short, blank).
	ErrInvalidQuery = errors.New("invalid query")
)
