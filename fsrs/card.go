package fsrs

import (
	"math"
	"time"
)

// Card is the internal memory-state representation the Engine consumes.
// It is the decoded form of a persisted sprout.CardState.
type Card struct {
	State         State      `json:"state"`
	Step          *int       `json:"step"`        // nil outside Learning/Relearning.
	Stability     *float64   `json:"stability"`   // nil before first grading.
	Difficulty    *float64   `json:"difficulty"`  // nil before first grading.
	Due           time.Time  `json:"due"`
	LastReview    *time.Time `json:"last_review"` // nil before first grading.
	ScheduledDays float64    `json:"scheduled_days"`
	Reps          int        `json:"reps"`
	Lapses        int        `json:"lapses"`
}

// NewCard returns a fresh, never-graded card that is due at the given time.
func NewCard(now time.Time) Card {
	return Card{State: New, Due: now}
}

// ElapsedDays returns the number of whole days between last and now,
// floored and never negative. The model consumes elapsed time at day
// granularity; values below one day take the short-term stability path.
func ElapsedDays(last, now time.Time) float64 {
	d := math.Floor(now.Sub(last).Hours() / 24.0)
	if d < 0 {
		return 0
	}
	return d
}

// clone returns a deep copy of the card. Pointer fields are copied by value.
func (c Card) clone() Card {
	out := c
	if c.Step != nil {
		v := *c.Step
		out.Step = &v
	}
	if c.Stability != nil {
		v := *c.Stability
		out.Stability = &v
	}
	if c.Difficulty != nil {
		v := *c.Difficulty
		out.Difficulty = &v
	}
	if c.LastReview != nil {
		v := *c.LastReview
		out.LastReview = &v
	}
	return out
}

func (c *Card) setStability(s float64) {
	c.Stability = &s
}

func (c *Card) setDifficulty(d float64) {
	c.Difficulty = &d
}

func (c *Card) setStep(step int) {
	c.Step = &step
}

func (c *Card) clearStep() {
	c.Step = nil
}
