package fsrs

import "errors"

// Sentinel errors for the fsrs package.
// Use errors.Is to check: errors.Is(err, fsrs.ErrInvalidWeights)
var (
	ErrInvalidWeights = errors.New("fsrs: weights out of bounds")
	ErrInvalidConfig  = errors.New("fsrs: invalid engine config")
)
