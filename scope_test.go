package sprout

import (
	"testing"
	"time"

	"github.com/ctrlaltwill/Sprout-sub005/fsrs"
)

func basicRecord(id, path string, groups ...string) CardRecord {
	return CardRecord{ID: id, Type: TypeBasic, Path: path, Groups: groups}
}

// --- Matching ---

func TestScopeMatchesVault(t *testing.T) {
	scope := VaultScope()

	records := []CardRecord{
		basicRecord("a", "notes/a.md"),
		basicRecord("b", "inbox/scratch.md", "Language/Japanese"),
		basicRecord("c", ""),
	}
	for _, rec := range records {
		if !scope.Matches(rec) {
			t.Errorf("vault scope should match %q", rec.ID)
		}
	}
}

func TestScopeMatchesNote(t *testing.T) {
	scope := NoteScope("notes/japan.md")

	tests := []struct {
		path string
		want bool
	}{
		{"notes/japan.md", true},
		{"notes/japan.md.bak", false},
		{"notes/japan.md/extra", false},
		{"notes/Japan.md", false},
		{"other/japan.md", false},
	}
	for _, tt := range tests {
		if got := scope.Matches(basicRecord("x", tt.path)); got != tt.want {
			t.Errorf("note scope vs %q = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestScopeMatchesFolder(t *testing.T) {
	scope := FolderScope("notes/japan")

	tests := []struct {
		path string
		want bool
	}{
		{"notes/japan/verbs.md", true},
		{"notes/japan/deep/nested.md", true},
		{"notes/japan", true}, // folder note named after the folder itself
		{"notes/japanese/verbs.md", false},
		{"notes/japan.md", false},
		{"notes", false},
	}
	for _, tt := range tests {
		if got := scope.Matches(basicRecord("x", tt.path)); got != tt.want {
			t.Errorf("folder scope vs %q = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestScopeMatchesGroup(t *testing.T) {
	scope := GroupScope("Language/Japanese")

	tests := []struct {
		name   string
		groups []string
		want   bool
	}{
		{"exact", []string{"Language/Japanese"}, true},
		{"different case", []string{"language/japanese"}, true},
		{"subgroup", []string{"Language/Japanese/Verbs"}, true},
		{"subgroup different case", []string{"LANGUAGE/JAPANESE/verbs"}, true},
		{"parent group only", []string{"Language"}, false},
		{"sibling prefix", []string{"Language/JapaneseHistory"}, false},
		{"one of several", []string{"Inbox", "Language/Japanese"}, true},
		{"no groups", nil, false},
	}
	for _, tt := range tests {
		if got := scope.Matches(basicRecord("x", "any.md", tt.groups...)); got != tt.want {
			t.Errorf("%s: group scope vs %v = %v, want %v", tt.name, tt.groups, got, tt.want)
		}
	}
}

func TestScopeMatchesUnknownKind(t *testing.T) {
	if (Scope{Kind: ScopeKind(99)}).Matches(basicRecord("x", "a.md")) {
		t.Error("an unrecognized scope kind should match nothing")
	}
}

// --- Due selection ---

func TestDueCards(t *testing.T) {
	now := t0
	records := []CardRecord{
		basicRecord("never-scheduled", "notes/a.md"),
		basicRecord("due-now", "notes/b.md"),
		basicRecord("overdue", "notes/c.md"),
		basicRecord("not-yet-due", "notes/d.md"),
		basicRecord("suspended", "notes/e.md"),
		basicRecord("excluded", "notes/f.md"),
		{ID: "wrapper", Type: TypeClozeParent, Path: "notes/g.md"},
	}
	states := map[string]CardState{
		"due-now":     {Stage: StageReview, Due: now, LastReviewed: ptrT(now.Add(-time.Hour)), Memory: fsrs.Review},
		"overdue":     {Stage: StageLearning, Due: now.Add(-time.Hour), LastReviewed: ptrT(now.Add(-2 * time.Hour)), Memory: fsrs.Learning},
		"not-yet-due": {Stage: StageReview, Due: now.Add(time.Hour), LastReviewed: ptrT(now.Add(-time.Hour)), Memory: fsrs.Review},
		"suspended": {
			Stage: StageSuspended, Due: FarFuture, SuspendedDue: ptrT(now.Add(-time.Hour)),
			LastReviewed: ptrT(now.Add(-2 * time.Hour)), Memory: fsrs.Review,
		},
		"excluded": {Stage: StageReview, Due: now.Add(-time.Minute), LastReviewed: ptrT(now.Add(-time.Hour)), Memory: fsrs.Review},
	}

	got := DueCards(records, states, VaultScope(), map[string]bool{"excluded": true}, now)

	want := []string{"never-scheduled", "due-now", "overdue"}
	if len(got) != len(want) {
		t.Fatalf("got %d cards, want %d: %v", len(got), len(want), got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("got[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestDueCardsScoped(t *testing.T) {
	now := t0
	records := []CardRecord{
		basicRecord("inside", "notes/japan/a.md"),
		basicRecord("outside", "notes/rust/b.md"),
	}

	got := DueCards(records, nil, FolderScope("notes/japan"), nil, now)

	if len(got) != 1 || got[0].ID != "inside" {
		t.Errorf("got %v, want only the in-folder card", got)
	}
}

// --- Practice selection ---

func TestPracticeCards(t *testing.T) {
	// Practice is the inverse of review: it serves only material that is
	// not yet due. A, suspended, stays out however its due falls.
	now := t0
	records := []CardRecord{
		basicRecord("a", "notes/a.md"),
		basicRecord("b", "notes/b.md"),
		basicRecord("c", "notes/c.md"),
	}
	states := map[string]CardState{
		"a": {
			Stage: StageSuspended, Due: FarFuture, SuspendedDue: ptrT(now.Add(1000 * time.Second)),
			LastReviewed: ptrT(now.Add(-time.Hour)), Memory: fsrs.Review,
		},
		"b": {Stage: StageReview, Due: now.Add(-1000 * time.Second), LastReviewed: ptrT(now.Add(-time.Hour)), Memory: fsrs.Review},
		"c": {Stage: StageReview, Due: now.Add(2000 * time.Second), LastReviewed: ptrT(now.Add(-time.Hour)), Memory: fsrs.Review},
	}

	got := PracticeCards(records, states, VaultScope(), nil, now)

	if len(got) != 1 || got[0].ID != "c" {
		t.Fatalf("got %v, want only %q", got, "c")
	}
}

func TestPracticeCardsDueBoundary(t *testing.T) {
	// Due exactly at "now" belongs to review, not practice.
	now := t0
	records := []CardRecord{basicRecord("edge", "notes/a.md")}
	states := map[string]CardState{
		"edge": {Stage: StageReview, Due: now, LastReviewed: ptrT(now.Add(-time.Hour)), Memory: fsrs.Review},
	}

	if got := PracticeCards(records, states, VaultScope(), nil, now); len(got) != 0 {
		t.Errorf("got %v, want none", got)
	}
	if got := DueCards(records, states, VaultScope(), nil, now); len(got) != 1 {
		t.Errorf("review queue got %v, want the boundary card", got)
	}
}

func TestPracticeCardsSortOrder(t *testing.T) {
	now := t0
	reviewed := ptrT(now.Add(-time.Hour))
	records := []CardRecord{
		basicRecord("later", "notes/z.md"),
		basicRecord("never-b", "notes/m.md"),
		basicRecord("soon", "notes/a.md"),
		basicRecord("never-a", "notes/m.md"),
		basicRecord("tied-b", "notes/beta.md"),
		basicRecord("tied-a", "notes/alpha.md"),
	}
	due := now.Add(time.Hour)
	states := map[string]CardState{
		"soon":   {Stage: StageReview, Due: now.Add(30 * time.Minute), LastReviewed: reviewed, Memory: fsrs.Review},
		"later":  {Stage: StageReview, Due: now.Add(5 * time.Hour), LastReviewed: reviewed, Memory: fsrs.Review},
		"tied-a": {Stage: StageReview, Due: due, LastReviewed: reviewed, Memory: fsrs.Review},
		"tied-b": {Stage: StageReview, Due: due, LastReviewed: reviewed, Memory: fsrs.Review},
	}

	got := PracticeCards(records, states, VaultScope(), nil, now)

	// Ascending due; equal dues break on path; unknown dues sort last,
	// breaking on path then id.
	want := []string{"soon", "tied-a", "tied-b", "later", "never-a", "never-b"}
	if len(got) != len(want) {
		t.Fatalf("got %d cards, want %d: %v", len(got), len(want), got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("got[%d] = %q, want %q (full order %v)", i, got[i].ID, id, got)
		}
	}
}

func TestPracticeCardsDeterministic(t *testing.T) {
	now := t0
	records := []CardRecord{
		basicRecord("one", "notes/a.md"),
		basicRecord("two", "notes/b.md"),
		basicRecord("three", "notes/c.md"),
	}

	first := PracticeCards(records, nil, VaultScope(), nil, now)
	reversed := []CardRecord{records[2], records[1], records[0]}
	second := PracticeCards(reversed, nil, VaultScope(), nil, now)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("order depends on input order at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}
