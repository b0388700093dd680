package sprout

import (
	"testing"
	"time"

	"github.com/ctrlaltwill/Sprout-sub005/fsrs"
)

// --- Bury ---

func TestBury(t *testing.T) {
	state := reviewState(10, 5, 10, t0.Add(-10*24*time.Hour))

	got := Bury(state, t0)

	want := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	if !got.Due.Equal(want) {
		t.Errorf("Due = %v, want start of next day %v", got.Due, want)
	}
	if got.Stage != StageReview {
		t.Errorf("Stage = %v, want untouched %v", got.Stage, StageReview)
	}
	if got.Reps != state.Reps || got.Lapses != state.Lapses {
		t.Error("bury should not touch counters")
	}
	if *got.StabilityDays != 10 || *got.Difficulty != 5 {
		t.Error("bury should not touch memory parameters")
	}
}

func TestBuryLeavesLaterDueAlone(t *testing.T) {
	later := t0.Add(10 * 24 * time.Hour)
	state := CardState{Stage: StageReview, Due: later, LastReviewed: ptrT(t0), Memory: fsrs.Review}

	if got := Bury(state, t0); !got.Due.Equal(later) {
		t.Errorf("Due = %v, want untouched %v", got.Due, later)
	}
}

func TestBuryMonotonic(t *testing.T) {
	dues := []time.Time{
		t0.Add(-30 * 24 * time.Hour),
		t0.Add(-time.Minute),
		t0,
		t0.Add(5 * time.Hour),
		time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		t0.Add(100 * 24 * time.Hour),
	}
	endOfToday := time.Date(2025, 6, 15, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)

	for _, due := range dues {
		state := CardState{Stage: StageReview, Due: due, LastReviewed: ptrT(t0.Add(-time.Hour)), Memory: fsrs.Review}
		got := Bury(state, t0)

		if got.Due.Before(due) {
			t.Errorf("due %v: bury moved it backward to %v", due, got.Due)
		}
		if !got.Due.After(endOfToday) {
			t.Errorf("due %v: buried due %v still falls on today", due, got.Due)
		}
	}
}

func TestBuryRepeatable(t *testing.T) {
	state := CardState{Stage: StageLearning, Due: t0, LastReviewed: ptrT(t0.Add(-time.Hour)), Memory: fsrs.Learning}

	once := Bury(state, t0)
	twice := Bury(once, t0)
	if !twice.Due.Equal(once.Due) {
		t.Errorf("second bury moved the due from %v to %v", once.Due, twice.Due)
	}

	// A later "now" can only push further out.
	later := Bury(once, t0.Add(48*time.Hour))
	if !later.Due.After(once.Due) {
		t.Errorf("bury two days later = %v, want after %v", later.Due, once.Due)
	}
}

func TestBuryDoesNotMutateInput(t *testing.T) {
	state := reviewState(10, 5, 10, t0.Add(-24*time.Hour))

	got := Bury(state, t0)
	*got.StabilityDays = 99

	if !state.Due.Equal(t0) {
		t.Errorf("input due changed to %v", state.Due)
	}
	if *state.StabilityDays != 10 {
		t.Error("bury aliased the input state")
	}
}

func TestBuryHonorsLocation(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2025, 6, 15, 22, 30, 0, 0, zone)
	state := CardState{Stage: StageReview, Due: now, LastReviewed: ptrT(now.Add(-time.Hour)), Memory: fsrs.Review}

	got := Bury(state, now)

	want := time.Date(2025, 6, 16, 0, 0, 0, 0, zone)
	if !got.Due.Equal(want) {
		t.Errorf("Due = %v, want local midnight %v", got.Due, want)
	}
}

// --- Suspend ---

func TestSuspend(t *testing.T) {
	due := t0.Add(2 * time.Hour)
	state := CardState{
		Stage:         StageReview,
		Due:           due,
		StabilityDays: ptrF(9),
		Difficulty:    ptrF(5),
		ScheduledDays: 9,
		Reps:          4,
		Lapses:        1,
		LastReviewed:  ptrT(t0.Add(-7 * 24 * time.Hour)),
		Memory:        fsrs.Review,
	}

	got := Suspend(state, t0)

	if got.Stage != StageSuspended {
		t.Errorf("Stage = %v, want %v", got.Stage, StageSuspended)
	}
	if !got.Due.Equal(FarFuture) {
		t.Errorf("Due = %v, want the far-future sentinel", got.Due)
	}
	if got.SuspendedDue == nil || !got.SuspendedDue.Equal(due) {
		t.Errorf("SuspendedDue = %v, want preserved %v", got.SuspendedDue, due)
	}
	if got.Memory != fsrs.Review {
		t.Errorf("Memory = %v, want retained %v", got.Memory, fsrs.Review)
	}
	if *got.StabilityDays != 9 || got.Reps != 4 || got.Lapses != 1 {
		t.Error("suspend should not touch memory parameters or counters")
	}
	if !got.coherent() {
		t.Error("suspended state should be coherent")
	}
}

func TestSuspendAbsentDue(t *testing.T) {
	// A card with no finite due preserves "now" instead.
	state := CardState{Stage: StageLearning, LastReviewed: ptrT(t0.Add(-time.Hour)), Memory: fsrs.Learning}

	got := Suspend(state, t0)

	if got.SuspendedDue == nil || !got.SuspendedDue.Equal(t0) {
		t.Errorf("SuspendedDue = %v, want now %v", got.SuspendedDue, t0)
	}
}

func TestSuspendAlreadySuspended(t *testing.T) {
	preserved := t0.Add(time.Hour)
	state := CardState{
		Stage:        StageSuspended,
		Due:          FarFuture,
		SuspendedDue: &preserved,
		LastReviewed: ptrT(t0.Add(-time.Hour)),
		Memory:       fsrs.Review,
	}

	got := Suspend(state, t0.Add(24*time.Hour))

	if got.SuspendedDue == nil || !got.SuspendedDue.Equal(preserved) {
		t.Errorf("SuspendedDue = %v, want untouched %v", got.SuspendedDue, preserved)
	}
	if got.Stage != StageSuspended || !got.Due.Equal(FarFuture) {
		t.Errorf("state changed: %+v", got)
	}

	*got.SuspendedDue = t0
	if !state.SuspendedDue.Equal(preserved) {
		t.Error("suspend aliased the input state")
	}
}

func TestSuspendCapturesLegacyMemoryTag(t *testing.T) {
	// Legacy records carry no memory tag; suspension is the last chance to
	// capture one, or the stage could not be restored later.
	tests := []struct {
		name  string
		state CardState
		want  fsrs.State
	}{
		{"review", CardState{Stage: StageReview, Due: t0, LastReviewed: ptrT(t0.Add(-time.Hour))}, fsrs.Review},
		{"learning", CardState{Stage: StageLearning, Due: t0, LastReviewed: ptrT(t0.Add(-time.Hour))}, fsrs.Learning},
		{"lapsed learning", CardState{Stage: StageLearning, Due: t0, Lapses: 2, LastReviewed: ptrT(t0.Add(-time.Hour))}, fsrs.Relearning},
		{"new", CardState{Stage: StageNew, Due: t0}, fsrs.New},
	}

	for _, tt := range tests {
		got := Suspend(tt.state, t0)
		if got.Memory != tt.want {
			t.Errorf("%s: Memory = %v, want %v", tt.name, got.Memory, tt.want)
		}
	}
}

// --- Unsuspend ---

func TestUnsuspend(t *testing.T) {
	preserved := t0.Add(2 * time.Hour)
	state := CardState{
		Stage:         StageSuspended,
		Due:           FarFuture,
		SuspendedDue:  &preserved,
		StabilityDays: ptrF(9),
		LastReviewed:  ptrT(t0.Add(-7 * 24 * time.Hour)),
		Memory:        fsrs.Review,
	}

	got := Unsuspend(state, t0.Add(30*24*time.Hour))

	if got.Stage != StageReview {
		t.Errorf("Stage = %v, want %v", got.Stage, StageReview)
	}
	if !got.Due.Equal(preserved) {
		t.Errorf("Due = %v, want restored %v", got.Due, preserved)
	}
	if got.SuspendedDue != nil {
		t.Errorf("SuspendedDue = %v, want cleared", *got.SuspendedDue)
	}
	if *got.StabilityDays != 9 {
		t.Error("unsuspend should not touch memory parameters")
	}
	if !got.coherent() {
		t.Error("restored state should be coherent")
	}
}

func TestUnsuspendNotSuspended(t *testing.T) {
	state := reviewState(10, 5, 10, t0.Add(-24*time.Hour))

	got := Unsuspend(state, t0)

	if got.Stage != StageReview || !got.Due.Equal(t0) {
		t.Errorf("unsuspend changed a non-suspended state: %+v", got)
	}

	*got.StabilityDays = 99
	if *state.StabilityDays != 10 {
		t.Error("unsuspend aliased the input state")
	}
}

func TestUnsuspendMissingPreservedDue(t *testing.T) {
	state := CardState{
		Stage:        StageSuspended,
		Due:          FarFuture,
		LastReviewed: ptrT(t0.Add(-time.Hour)),
		Memory:       fsrs.Learning,
	}

	got := Unsuspend(state, t0)

	if !got.Due.Equal(t0) {
		t.Errorf("Due = %v, want now %v", got.Due, t0)
	}
	if got.Stage != StageLearning {
		t.Errorf("Stage = %v, want %v", got.Stage, StageLearning)
	}
}

func TestUnsuspendStageMapping(t *testing.T) {
	tests := []struct {
		memory fsrs.State
		want   Stage
	}{
		{fsrs.Review, StageReview},
		{fsrs.Relearning, StageRelearning},
		{fsrs.Learning, StageLearning},
		{fsrs.New, StageNew},
		{fsrs.State(0), StageNew},
	}

	for _, tt := range tests {
		state := CardState{
			Stage:        StageSuspended,
			Due:          FarFuture,
			SuspendedDue: ptrT(t0.Add(time.Hour)),
			Memory:       tt.memory,
		}
		if tt.want != StageNew {
			state.LastReviewed = ptrT(t0.Add(-time.Hour))
		}

		if got := Unsuspend(state, t0); got.Stage != tt.want {
			t.Errorf("memory %v: Stage = %v, want %v", tt.memory, got.Stage, tt.want)
		}
	}
}

// --- Round trip ---

func TestSuspendUnsuspendRoundTrip(t *testing.T) {
	reviewed := ptrT(t0.Add(-4 * 24 * time.Hour))
	states := []CardState{
		NewCardState(t0),
		{Stage: StageLearning, Due: t0.Add(10 * time.Minute), Reps: 1, LastReviewed: reviewed, Memory: fsrs.Learning},
		reviewState(10, 5, 10, *reviewed),
		{Stage: StageRelearning, Due: t0.Add(10 * time.Minute), Reps: 6, Lapses: 2, LastReviewed: reviewed, Memory: fsrs.Relearning},
		// Legacy records round-trip via the tag captured at suspension time.
		{Stage: StageReview, Due: t0.Add(3 * 24 * time.Hour), ScheduledDays: 3, LastReviewed: reviewed},
		{Stage: StageLearning, Due: t0.Add(time.Minute), Reps: 1, LastReviewed: reviewed},
	}

	now1 := t0
	now2 := t0.Add(90 * 24 * time.Hour)

	for i, state := range states {
		restored := Unsuspend(Suspend(state, now1), now2)

		if !restored.Due.Equal(state.Due) {
			t.Errorf("state %d: Due = %v, want %v back", i, restored.Due, state.Due)
		}
		if restored.Stage != state.Stage {
			t.Errorf("state %d: Stage = %v, want %v back", i, restored.Stage, state.Stage)
		}
		if restored.SuspendedDue != nil {
			t.Errorf("state %d: SuspendedDue = %v, want cleared", i, *restored.SuspendedDue)
		}
		if restored.Reps != state.Reps || restored.Lapses != state.Lapses {
			t.Errorf("state %d: counters changed", i)
		}
	}
}

// --- Calendar day helper ---

func TestStartOfNextDay(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"mid-morning",
			time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"just before midnight",
			time.Date(2025, 6, 15, 23, 59, 59, 999999999, time.UTC),
			time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"exactly midnight",
			time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			"month boundary",
			time.Date(2025, 6, 30, 18, 0, 0, 0, time.UTC),
			time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"year boundary",
			time.Date(2025, 12, 31, 12, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		if got := startOfNextDay(tt.now); !got.Equal(tt.want) {
			t.Errorf("%s: startOfNextDay(%v) = %v, want %v", tt.name, tt.now, got, tt.want)
		}
	}
}
