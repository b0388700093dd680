package sprout

import (
	"time"

	"github.com/ctrlaltwill/Sprout-sub005/fsrs"
)

// FarFuture is the practically-infinite due timestamp given to suspended
// cards so that due-based queries never surface them. The real due time is
// preserved in SuspendedDue for restoration.
var FarFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// CardState is the persisted scheduling state of one card, keyed by card id
// by the storage collaborator. The zero time.Time plays "absent" for Due.
//
// A state is coherent iff (Stage == StageNew ⟺ LastReviewed is nil) and
// (Stage == StageSuspended ⟺ SuspendedDue is set and Due equals FarFuture).
// Decode coerces anything incoherent to a fresh new card rather than feeding
// untrustworthy history to the forgetting-curve engine.
type CardState struct {
	Stage         Stage      `json:"stage"`
	Due           time.Time  `json:"due"`
	SuspendedDue  *time.Time `json:"suspended_due,omitempty"`  // set only while suspended
	StabilityDays *float64   `json:"stability_days,omitempty"` // nil before first grading
	Difficulty    *float64   `json:"difficulty,omitempty"`     // nil before first grading
	ScheduledDays int        `json:"scheduled_days"`           // last review interval, whole days
	Reps          int        `json:"reps"`
	Lapses        int        `json:"lapses"`
	LearningStep  int        `json:"learning_step"`
	LastReviewed  *time.Time `json:"last_reviewed,omitempty"` // nil for new cards
	Memory        fsrs.State `json:"fsrs_state,omitempty"`    // zero on legacy records; inferred on decode
}

// NewCardState returns a fresh, never-graded state due at the given time.
func NewCardState(now time.Time) CardState {
	return CardState{Stage: StageNew, Due: now, Memory: fsrs.New}
}

// clone returns a deep copy. CardState contains pointers, so plain
// assignment would share them.
func (s CardState) clone() CardState {
	out := s
	if s.SuspendedDue != nil {
		v := *s.SuspendedDue
		out.SuspendedDue = &v
	}
	if s.StabilityDays != nil {
		v := *s.StabilityDays
		out.StabilityDays = &v
	}
	if s.Difficulty != nil {
		v := *s.Difficulty
		out.Difficulty = &v
	}
	if s.LastReviewed != nil {
		v := *s.LastReviewed
		out.LastReviewed = &v
	}
	return out
}

// coherent reports whether the state satisfies the storage invariant.
func (s CardState) coherent() bool {
	if (s.Stage == StageNew) != (s.LastReviewed == nil) {
		return false
	}
	suspendedShape := s.SuspendedDue != nil && s.Due.Equal(FarFuture)
	if (s.Stage == StageSuspended) != suspendedShape {
		return false
	}
	return true
}
