package sprout

import (
	"sort"
	"strings"
	"time"
)

// ScopeKind discriminates the variants of a study scope.
type ScopeKind int

const (
	ScopeVault  ScopeKind = iota + 1 // everything
	ScopeFolder                      // path prefix
	ScopeNote                        // exact source path
	ScopeGroup                       // named group, prefix-matched hierarchically
)

// Scope selects which cards a study or practice session draws from.
// Key carries the folder path, note path, or group path; it is empty for
// the vault scope.
type Scope struct {
	Kind ScopeKind
	Key  string
}

// VaultScope matches every card.
func VaultScope() Scope { return Scope{Kind: ScopeVault} }

// FolderScope matches cards whose source path lives under the folder.
func FolderScope(path string) Scope { return Scope{Kind: ScopeFolder, Key: path} }

// NoteScope matches cards generated from exactly one source note.
func NoteScope(path string) Scope { return Scope{Kind: ScopeNote, Key: path} }

// GroupScope matches cards belonging to the named group or any subgroup,
// case-insensitively.
func GroupScope(path string) Scope { return Scope{Kind: ScopeGroup, Key: path} }

// Matches reports whether the record falls inside the scope.
func (sc Scope) Matches(rec CardRecord) bool {
	switch sc.Kind {
	case ScopeVault:
		return true
	case ScopeNote:
		return rec.Path == sc.Key
	case ScopeFolder:
		return rec.Path == sc.Key || strings.HasPrefix(rec.Path, sc.Key+"/")
	case ScopeGroup:
		for _, g := range rec.Groups {
			if groupWithin(g, sc.Key) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// groupWithin reports whether group g sits at or below the key in the
// group hierarchy, ignoring case.
func groupWithin(g, key string) bool {
	if strings.EqualFold(g, key) {
		return true
	}
	prefix := key + "/"
	return len(g) > len(prefix) && strings.EqualFold(g[:len(prefix)], prefix)
}

// DueCards selects the records eligible for a study queue: schedulable
// type, not excluded, inside the scope, not suspended, and due now or
// earlier. A record with no stored state (or no due time) has never been
// scheduled and counts as due immediately. Input order is preserved;
// presentation order is OrderQueue's job.
func DueCards(records []CardRecord, states map[string]CardState, scope Scope, exclude map[string]bool, now time.Time) []CardRecord {
	out := make([]CardRecord, 0, len(records))
	for _, rec := range records {
		state, ok := eligible(rec, states, scope, exclude)
		if !ok {
			continue
		}
		if state.Due.IsZero() || !state.Due.After(now) {
			out = append(out, rec)
		}
	}
	return out
}

// PracticeCards selects the records eligible for a practice queue: the
// same criteria as DueCards except dueness is inverted — practice serves
// only cards that are NOT yet due (or have never been scheduled). Results
// sort ascending by due with unknown dues last, tie-broken by path then
// id, so equal inputs give equal queues.
func PracticeCards(records []CardRecord, states map[string]CardState, scope Scope, exclude map[string]bool, now time.Time) []CardRecord {
	out := make([]CardRecord, 0, len(records))
	for _, rec := range records {
		state, ok := eligible(rec, states, scope, exclude)
		if !ok {
			continue
		}
		if state.Due.IsZero() || state.Due.After(now) {
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		di := states[out[i].ID].Due
		dj := states[out[j].ID].Due
		if !di.Equal(dj) {
			if di.IsZero() {
				return false
			}
			if dj.IsZero() {
				return true
			}
			return di.Before(dj)
		}
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// eligible applies the criteria shared by both queue modes and returns the
// record's state (zero when it has none).
func eligible(rec CardRecord, states map[string]CardState, scope Scope, exclude map[string]bool) (CardState, bool) {
	if !rec.Type.Schedulable() {
		return CardState{}, false
	}
	if exclude[rec.ID] {
		return CardState{}, false
	}
	if !scope.Matches(rec) {
		return CardState{}, false
	}
	state, ok := states[rec.ID]
	if !ok {
		return CardState{}, true
	}
	if state.Stage == StageSuspended {
		return CardState{}, false
	}
	return state, true
}
