package building

import "errors"

var (
	// ErrInvalidRecord is returned when a raw feature lacks a required field
	// or carries a value that cannot be normalized.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidStoryCount is returned for negative, fractional or non-finite
	// story counts, and for totals above the story cap.
	ErrInvalidStoryCount = errors.New("invalid story count")

	// ErrInvalidDimension is returned for non-positive or non-finite widths
	// and depths, and non-finite angles.
	ErrInvalidDimension = errors.New("invalid dimension")

	// ErrUnknownField is returned when an edit names a field that is not editable.
	ErrUnknownField = errors.New("unknown field")
)
