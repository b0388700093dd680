package sprout

import (
	"math"
	"time"

	"github.com/ctrlaltwill/Sprout-sub005/fsrs"
)

// repair is the single coercion step applied to every state read from
// storage. History that cannot be trusted — a future-dated LastReviewed
// (clock skew) or a state violating the coherence invariant — degrades to
// a fresh new card rather than being fed to the forgetting-curve engine.
func repair(state CardState, now time.Time) CardState {
	if state.LastReviewed != nil && state.LastReviewed.After(now) {
		return NewCardState(now)
	}
	if !state.coherent() {
		return NewCardState(now)
	}
	return state
}

// inferMemory reconstructs a best-effort memory-state tag for legacy
// records persisted before the tag existed.
func inferMemory(state CardState) fsrs.State {
	switch state.Stage {
	case StageNew:
		return fsrs.New
	case StageReview:
		return fsrs.Review
	default:
		// learning, relearning, suspended, or unrecognized: a card that
		// has lapsed is relearning, anything else is still learning.
		if state.Lapses > 0 {
			return fsrs.Relearning
		}
		return fsrs.Learning
	}
}

// Decode reconstructs the internal card that the forgetting-curve engine
// consumes. The state is repaired first; suspended cards decode as their
// pre-suspension memory state (the engine has no suspended concept), with
// the preserved due time.
func Decode(state CardState, now time.Time) fsrs.Card {
	state = repair(state, now)

	mem := state.Memory
	if !mem.IsValid() {
		mem = inferMemory(state)
	}

	card := fsrs.Card{
		State:         mem,
		Due:           state.Due,
		ScheduledDays: float64(state.ScheduledDays),
		Reps:          state.Reps,
		Lapses:        state.Lapses,
	}

	if state.Stage == StageSuspended && state.SuspendedDue != nil {
		card.Due = *state.SuspendedDue
	}

	if state.LastReviewed != nil {
		v := *state.LastReviewed
		card.LastReview = &v
	}

	// Stability: absent for new; stored value when positive; for review
	// cards with nothing stored, fall back to the last interval.
	switch {
	case mem == fsrs.New:
	case state.StabilityDays != nil && *state.StabilityDays > 0:
		v := *state.StabilityDays
		card.Stability = &v
	case mem == fsrs.Review && state.ScheduledDays > 0:
		v := math.Max(0.1, float64(state.ScheduledDays))
		card.Stability = &v
	}

	if mem != fsrs.New && state.Difficulty != nil && *state.Difficulty > 0 {
		v := *state.Difficulty
		card.Difficulty = &v
	}

	if mem == fsrs.Learning || mem == fsrs.Relearning {
		step := state.LearningStep
		if step < 0 {
			step = 0
		}
		card.Step = &step
	}

	return card
}

// Encode translates the engine's output card back to a persisted state.
// If the previous state was suspended the engine output is discarded and
// the previous state returned unchanged: suspension is lifted only by the
// explicit unsuspend operation, never by grading.
func Encode(prev CardState, card fsrs.Card) CardState {
	if prev.Stage == StageSuspended {
		return prev.clone()
	}

	out := CardState{
		Stage:         stageFor(card.State),
		Due:           card.Due,
		ScheduledDays: int(math.Floor(card.ScheduledDays)),
		Reps:          card.Reps,
		Lapses:        card.Lapses,
		Memory:        card.State,
	}
	if out.ScheduledDays < 0 {
		out.ScheduledDays = 0
	}
	if out.Reps < 0 {
		out.Reps = 0
	}
	if out.Lapses < 0 {
		out.Lapses = 0
	}
	if card.Step != nil && *card.Step > 0 {
		out.LearningStep = *card.Step
	}

	// Memory parameters carry through from the engine, falling back to the
	// previous state when the engine yields nothing finite.
	out.StabilityDays = finiteOr(card.Stability, prev.StabilityDays)
	out.Difficulty = finiteOr(card.Difficulty, prev.Difficulty)
	if card.LastReview != nil {
		v := *card.LastReview
		out.LastReviewed = &v
	} else if prev.LastReviewed != nil {
		v := *prev.LastReviewed
		out.LastReviewed = &v
	}

	// A new card has no history by definition; keep the output coherent
	// even when the previous state carried stale fields.
	if out.Stage == StageNew {
		out.StabilityDays = nil
		out.Difficulty = nil
		out.LastReviewed = nil
		out.ScheduledDays = 0
		out.LearningStep = 0
	}

	return out
}

// stageFor maps the internal memory state to the persisted stage.
func stageFor(s fsrs.State) Stage {
	switch s {
	case fsrs.New:
		return StageNew
	case fsrs.Review:
		return StageReview
	case fsrs.Relearning:
		return StageRelearning
	default:
		return StageLearning
	}
}

// finiteOr returns a copy of v when it holds a finite number, a copy of
// fallback otherwise, or nil when both are empty.
func finiteOr(v, fallback *float64) *float64 {
	if v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0) {
		f := *v
		return &f
	}
	if fallback != nil {
		f := *fallback
		return &f
	}
	return nil
}
