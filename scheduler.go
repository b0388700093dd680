package sprout

import (
	"fmt"
	"time"

	"github.com/ctrlaltwill/Sprout-sub005/fsrs"
)

// GradeMetrics is the descriptive half of a grading result, intended for
// logging and analytics collaborators. Retrievability fields are nil when
// there is no history or stability to evaluate.
type GradeMetrics struct {
	ElapsedDays          float64    `json:"elapsed_days"`
	RetrievabilityBefore *float64   `json:"retrievability_before"`
	RetrievabilityAfter  *float64   `json:"retrievability_after"`
	Stability            float64    `json:"stability"`
	Difficulty           float64    `json:"difficulty"`
	MemoryBefore         fsrs.State `json:"memory_before"`
	MemoryAfter          fsrs.State `json:"memory_after"`
}

// GradeResult is produced per grading call: the next persisted state plus
// the metrics bundle. It is ephemeral and never persisted itself.
type GradeResult struct {
	State       CardState    `json:"state"`
	PreviousDue time.Time    `json:"previous_due"`
	NextDue     time.Time    `json:"next_due"`
	Metrics     GradeMetrics `json:"metrics"`
}

// Scheduler grades cards against a fixed Settings value. It is stateless
// beyond its configuration and safe for concurrent use as long as callers
// do not grade the same card concurrently.
type Scheduler struct {
	settings Settings
	engine   *fsrs.Engine
}

// NewScheduler creates a Scheduler from the given settings. Zero-value
// fields are filled with defaults and the retention is clamped; weight or
// interval values the engine cannot accept return ErrInvalidSettings.
func NewScheduler(settings Settings) (*Scheduler, error) {
	s := settings.normalized()
	engine, err := fsrs.NewEngine(s.engineConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return &Scheduler{settings: s, engine: engine}, nil
}

// Settings returns the normalized settings the scheduler was built with.
func (s *Scheduler) Settings() Settings {
	return s.settings
}

// Grade advances the card's state for the given recall outcome and returns
// the next state plus metrics. The input state is not mutated.
//
// Grading a suspended card is a no-op: the state comes back unchanged with
// nil retrievability fields. An invalid rating returns ErrInvalidRating.
func (s *Scheduler) Grade(state CardState, rating Rating, now time.Time) (GradeResult, error) {
	g, err := rating.grade()
	if err != nil {
		return GradeResult{}, err
	}

	if state.Stage == StageSuspended {
		mem := state.Memory
		if !mem.IsValid() {
			mem = inferMemory(state)
		}
		return GradeResult{
			State:       state.clone(),
			PreviousDue: state.Due,
			NextDue:     state.Due,
			Metrics: GradeMetrics{
				MemoryBefore: mem,
				MemoryAfter:  mem,
			},
		}, nil
	}

	card := Decode(state, now)

	var elapsed float64
	if card.LastReview != nil {
		elapsed = fsrs.ElapsedDays(*card.LastReview, now)
	}

	// Pre-grading retrievability: only a card with history and stability
	// has a recall probability to report.
	var before *float64
	if card.LastReview != nil && card.Stability != nil {
		r := s.engine.CardRetrievability(card, now)
		before = &r
	}
	memBefore := card.State

	next := s.engine.Advance(card, g, now)

	// Post-grading retrievability at the newly scheduled interval.
	var after *float64
	if next.Stability != nil && *next.Stability > 0 {
		days := next.Due.Sub(now).Hours() / 24.0
		r := s.engine.Retrievability(days, *next.Stability)
		after = &r
	}

	out := Encode(state, next)

	metrics := GradeMetrics{
		ElapsedDays:          elapsed,
		RetrievabilityBefore: before,
		RetrievabilityAfter:  after,
		MemoryBefore:         memBefore,
		MemoryAfter:          next.State,
	}
	if next.Stability != nil {
		metrics.Stability = *next.Stability
	}
	if next.Difficulty != nil {
		metrics.Difficulty = *next.Difficulty
	}

	return GradeResult{
		State:       out,
		PreviousDue: state.Due,
		NextDue:     out.Due,
		Metrics:     metrics,
	}, nil
}

// Preview returns the result of grading the card with each of the four
// ratings, without committing any of them.
func (s *Scheduler) Preview(state CardState, now time.Time) (map[Rating]GradeResult, error) {
	out := make(map[Rating]GradeResult, 4)
	for _, r := range []Rating{RatingAgain, RatingHard, RatingGood, RatingEasy} {
		res, err := s.Grade(state, r, now)
		if err != nil {
			return nil, err
		}
		out[r] = res
	}
	return out, nil
}

// Reset fully discards the card's review history, returning a fresh
// new-stage state due at the given time. The scheduler's settings do not
// affect the result; Reset lives here for symmetry with Grade.
func (s *Scheduler) Reset(_ CardState, now time.Time) CardState {
	return NewCardState(now)
}

// Retrievability returns the card's current probability of recall, or nil
// when the card has no history or stability to evaluate.
func (s *Scheduler) Retrievability(state CardState, now time.Time) *float64 {
	card := Decode(state, now)
	if card.LastReview == nil || card.Stability == nil {
		return nil
	}
	r := s.engine.CardRetrievability(card, now)
	return &r
}
