package sprout

import (
	"time"

	"github.com/ctrlaltwill/Sprout-sub005/fsrs"
)

// Bury postpones the card to the start of the next calendar day after now,
// or leaves it alone if it is already due later than that. Stage, counters,
// and memory parameters are untouched, so burying is a pure due-date
// postponement and repeatable: a later "now" can only push the due date
// further out, never backward.
func Bury(state CardState, now time.Time) CardState {
	out := state.clone()
	tomorrow := startOfNextDay(now)
	if out.Due.Before(tomorrow) {
		out.Due = tomorrow
	}
	return out
}

// Suspend removes the card from due-based scheduling: the current due time
// is preserved in SuspendedDue (now, if the card has none), the memory
// state to restore is captured, and Due becomes the FarFuture sentinel so
// due-based queries never surface the card.
//
// Suspending an already-suspended card is an idempotent no-op; the
// preserved due time is never overwritten with the sentinel.
func Suspend(state CardState, now time.Time) CardState {
	if state.Stage == StageSuspended {
		return state.clone()
	}
	out := state.clone()
	if !out.Memory.IsValid() {
		out.Memory = inferMemory(state)
	}
	due := out.Due
	if due.IsZero() {
		due = now
	}
	out.SuspendedDue = &due
	out.Stage = StageSuspended
	out.Due = FarFuture
	return out
}

// Unsuspend restores a suspended card: the due time comes back from
// SuspendedDue (now, if it was lost) and the stage is rebuilt from the
// memory state retained through suspension. A card that is not suspended
// is returned unchanged.
func Unsuspend(state CardState, now time.Time) CardState {
	if state.Stage != StageSuspended {
		return state.clone()
	}
	out := state.clone()
	if out.SuspendedDue != nil {
		out.Due = *out.SuspendedDue
	} else {
		out.Due = now
	}
	out.SuspendedDue = nil
	switch out.Memory {
	case fsrs.Review:
		out.Stage = StageReview
	case fsrs.Relearning:
		out.Stage = StageRelearning
	case fsrs.Learning:
		out.Stage = StageLearning
	default:
		out.Stage = StageNew
	}
	return out
}

// startOfNextDay returns midnight of the day after now, in now's location.
func startOfNextDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}
