package roster

import "errors"

var (
	// ErrDimensionMismatch is returned when a descriptor's length does not
	// match the configured descriptor dimension.
	ErrDimensionMismatch = errors.New("descriptor dimension mismatch")

	// ErrEmptyPersonID is returned when an entry has no person ID.
	ErrEmptyPersonID = errors.New("empty person ID")

	// ErrPersonNotFound is returned when a person ID is not in the roster.
	ErrPersonNotFound = errors.New("person not found")
)
