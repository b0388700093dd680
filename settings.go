package sprout

import (
	"time"

	"github.com/ctrlaltwill/Sprout-sub005/fsrs"
)

// Retention bounds. The engine clamps a configured retention into this
// range rather than rejecting it.
const (
	MinRetention     = 0.80
	MaxRetention     = 0.97
	DefaultRetention = 0.9
)

// Settings is the per-session scheduling configuration. It is read-only to
// the engine: load it once, pass it by value, share it freely across
// goroutines. Zero values produce defaults; see field comments.
type Settings struct {
	LearningSteps    []time.Duration `json:"learning_steps"`    // nil → [1m, 10m]; empty → no steps
	RelearningSteps  []time.Duration `json:"relearning_steps"`  // nil → [10m]; empty → no steps
	DesiredRetention float64         `json:"desired_retention"` // zero → 0.9; clamped to [0.80, 0.97]
	MaximumInterval  int             `json:"maximum_interval"`  // zero → 36500 days
	Weights          [21]float64     `json:"weights"`           // zero → fsrs.DefaultWeights
	DisableFuzz      bool            `json:"disable_fuzz"`      // zero false → fuzz enabled
}

// normalized returns a copy with defaults filled in and the retention
// clamped into [MinRetention, MaxRetention].
func (s Settings) normalized() Settings {
	if s.LearningSteps == nil {
		s.LearningSteps = []time.Duration{time.Minute, 10 * time.Minute}
	}
	if s.RelearningSteps == nil {
		s.RelearningSteps = []time.Duration{10 * time.Minute}
	}
	if s.DesiredRetention == 0 {
		s.DesiredRetention = DefaultRetention
	}
	if s.DesiredRetention < MinRetention {
		s.DesiredRetention = MinRetention
	}
	if s.DesiredRetention > MaxRetention {
		s.DesiredRetention = MaxRetention
	}
	if s.MaximumInterval == 0 {
		s.MaximumInterval = 36500
	}
	if s.Weights == ([21]float64{}) {
		s.Weights = fsrs.DefaultWeights
	}
	return s
}

// engineConfig translates the settings into the forgetting-curve engine's
// configuration. Call on a normalized value.
func (s Settings) engineConfig() fsrs.Config {
	return fsrs.Config{
		Weights:          s.Weights,
		DesiredRetention: s.DesiredRetention,
		LearningSteps:    s.LearningSteps,
		RelearningSteps:  s.RelearningSteps,
		MaximumInterval:  s.MaximumInterval,
		DisableFuzz:      s.DisableFuzz,
	}
}
