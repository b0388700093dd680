package sprout

import "errors"

// Sentinel errors for the sprout package.
// Use errors.Is to check: errors.Is(err, sprout.ErrInvalidRating)
var (
	ErrInvalidRating   = errors.New("sprout: invalid rating")
	ErrInvalidSettings = errors.New("sprout: invalid settings")
)
