package sprout

import (
	"encoding"
	"encoding/json"
	"fmt"
)

// Stage is the persisted learning stage of a card. It is the outward,
// storage-facing counterpart of the internal memory state (fsrs.State):
// the two coincide except while a card is suspended, when Stage is
// StageSuspended and the memory state records what to restore.
type Stage int

const (
	StageNew        Stage = iota + 1 // Never graded.
	StageLearning                    // In the initial learning steps.
	StageReview                      // In the long-term review cycle.
	StageRelearning                  // Lapsed, relearning.
	StageSuspended                   // Removed from scheduling until unsuspended.
)

var (
	stageNames = [...]string{
		StageNew:        "new",
		StageLearning:   "learning",
		StageReview:     "review",
		StageRelearning: "relearning",
		StageSuspended:  "suspended",
	}
	stageByName = map[string]Stage{
		"new":        StageNew,
		"learning":   StageLearning,
		"review":     StageReview,
		"relearning": StageRelearning,
		"suspended":  StageSuspended,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Stage(0)
	_ json.Marshaler           = Stage(0)
	_ json.Unmarshaler         = (*Stage)(nil)
	_ encoding.TextMarshaler   = Stage(0)
	_ encoding.TextUnmarshaler = (*Stage)(nil)
)

func (s Stage) isValid() bool {
	return s >= StageNew && s <= StageSuspended
}

// String returns the wire name of the stage ("new", "learning", "review",
// "relearning", "suspended"). For invalid values it returns "Stage(n)".
func (s Stage) String() string {
	if s.isValid() {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	if !s.isValid() {
		return nil, fmt.Errorf("sprout: invalid stage: %d", int(s))
	}
	return []byte(stageNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	v, ok := stageByName[string(text)]
	if !ok {
		return fmt.Errorf("sprout: invalid stage: %q", text)
	}
	*s = v
	return nil
}

// MarshalJSON implements json.Marshaler. Stage serializes as a JSON string.
func (s Stage) MarshalJSON() ([]byte, error) {
	text, err := s.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("sprout: invalid stage: %s", data)
	}
	return s.UnmarshalText([]byte(str))
}
