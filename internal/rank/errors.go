package rank

import "errors"

var (
	// ErrMissingAttribute means an offer lacks price, duration, or timestamps.
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrInvalidWeight means a supplied weight is negative.
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrEmptyBatch means there are no candidates to rank.
	ErrEmptyBatch = errors.New("empty batch")
)
