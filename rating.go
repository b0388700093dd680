package sprout

import (
	"encoding"
	"encoding/json"
	"fmt"

	"github.com/ctrlaltwill/Sprout-sub005/fsrs"
)

// Rating is a recall outcome reported by the learner.
type Rating int

const (
	RatingAgain Rating = iota + 1 // Failed to recall.
	RatingHard                    // Recalled with serious difficulty.
	RatingGood                    // Recalled with some effort.
	RatingEasy                    // Recalled effortlessly.
)

var (
	ratingNames = [...]string{
		RatingAgain: "again",
		RatingHard:  "hard",
		RatingGood:  "good",
		RatingEasy:  "easy",
	}
	ratingByName = map[string]Rating{
		"again": RatingAgain,
		"hard":  RatingHard,
		"good":  RatingGood,
		"easy":  RatingEasy,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Rating(0)
	_ json.Marshaler           = Rating(0)
	_ json.Unmarshaler         = (*Rating)(nil)
	_ encoding.TextMarshaler   = Rating(0)
	_ encoding.TextUnmarshaler = (*Rating)(nil)
)

// IsValid reports whether r is one of the four defined ratings.
func (r Rating) IsValid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// String returns the wire name of the rating ("again", "hard", "good",
// "easy"). For invalid values it returns "Rating(n)".
func (r Rating) String() string {
	if r.IsValid() {
		return ratingNames[r]
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

// grade maps the rating onto the engine's internal grade. The mapping is
// exhaustive over the four ratings; anything else is a caller error and
// returns ErrInvalidRating rather than defaulting.
func (r Rating) grade() (fsrs.Grade, error) {
	switch r {
	case RatingAgain:
		return fsrs.GradeAgain, nil
	case RatingHard:
		return fsrs.GradeHard, nil
	case RatingGood:
		return fsrs.GradeGood, nil
	case RatingEasy:
		return fsrs.GradeEasy, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidRating, int(r))
	}
}

// PassRating collapses a binary pass/fail outcome to a rating, for callers
// that only offer two buttons. Fail maps to RatingAgain; pass maps to
// RatingGood, or RatingEasy when easyOnPass is set.
func PassRating(pass, easyOnPass bool) Rating {
	if !pass {
		return RatingAgain
	}
	if easyOnPass {
		return RatingEasy
	}
	return RatingGood
}

// MarshalText implements encoding.TextMarshaler.
func (r Rating) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("sprout: invalid rating: %d", int(r))
	}
	return []byte(ratingNames[r]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rating) UnmarshalText(text []byte) error {
	v, ok := ratingByName[string(text)]
	if !ok {
		return fmt.Errorf("sprout: invalid rating: %q", text)
	}
	*r = v
	return nil
}

// MarshalJSON implements json.Marshaler. Rating serializes as a JSON string.
func (r Rating) MarshalJSON() ([]byte, error) {
	text, err := r.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("sprout: invalid rating: %s", data)
	}
	return r.UnmarshalText([]byte(str))
}
