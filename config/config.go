// Package config loads scheduling profiles from YAML files with
// environment-variable overrides.
//
// A Profile is the on-disk form of the engine's settings plus the
// queue-ordering window. Load layers three sources, later ones winning:
// built-in defaults, the YAML file, and SPROUT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	sprout "github.com/ctrlaltwill/Sprout-sub005"
)

// ErrInvalidProfile is returned when a profile cannot be translated into
// engine settings.
var ErrInvalidProfile = errors.New("config: invalid profile")

// Duration is a time.Duration that reads naturally in profiles: YAML and
// env values accept either a duration string ("90s", "10m") or a bare
// number, which is taken as minutes.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler, used for env values.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		return d.UnmarshalText([]byte(s))
	}
	var minutes float64
	if err := value.Decode(&minutes); err != nil {
		return fmt.Errorf("config: invalid duration %q", value.Value)
	}
	*d = Duration(time.Duration(minutes * float64(time.Minute)))
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Profile is the persisted scheduling configuration. An explicitly empty
// step list ([] in YAML) disables the steps; omitting the key keeps the
// default. Weights must hold 0 or 21 entries; 0 means the built-in
// defaults.
type Profile struct {
	LearningSteps    []Duration `yaml:"learning_steps" env:"SPROUT_LEARNING_STEPS" envSeparator:","`
	RelearningSteps  []Duration `yaml:"relearning_steps" env:"SPROUT_RELEARNING_STEPS" envSeparator:","`
	DesiredRetention float64    `yaml:"desired_retention" env:"SPROUT_DESIRED_RETENTION"`
	MaximumInterval  int        `yaml:"maximum_interval" env:"SPROUT_MAXIMUM_INTERVAL"`
	Weights          []float64  `yaml:"weights,flow,omitempty" env:"SPROUT_WEIGHTS" envSeparator:","`
	DisableFuzz      bool       `yaml:"disable_fuzz" env:"SPROUT_DISABLE_FUZZ"`
	QueueWindow      Duration   `yaml:"queue_window" env:"SPROUT_QUEUE_WINDOW"`
}

// Default returns the built-in profile: 1m/10m learning steps, a 10m
// relearning step, 90% desired retention, a 100-year interval cap and the
// standard 30-minute queue window.
func Default() *Profile {
	return &Profile{
		LearningSteps:    []Duration{Duration(time.Minute), Duration(10 * time.Minute)},
		RelearningSteps:  []Duration{Duration(10 * time.Minute)},
		DesiredRetention: 0.9,
		MaximumInterval:  36500,
		QueueWindow:      Duration(sprout.DefaultQueueWindow),
	}
}

// Load reads the profile at path, then applies SPROUT_* environment
// overrides. A missing file is not an error; the defaults (plus env) are
// returned.
func Load(path string) (*Profile, error) {
	p := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := env.Parse(p); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	return p, nil
}

// Save writes the profile as YAML, creating parent directories as needed.
func Save(path string, p *Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("config: encode profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Settings translates the profile into engine settings. The engine applies
// its own defaulting and retention clamping on top; the only hard failure
// here is a weights list that is neither empty nor complete.
func (p *Profile) Settings() (sprout.Settings, error) {
	if n := len(p.Weights); n != 0 && n != 21 {
		return sprout.Settings{}, fmt.Errorf("%w: weights must have 0 or 21 entries, got %d", ErrInvalidProfile, n)
	}

	s := sprout.Settings{
		DesiredRetention: p.DesiredRetention,
		MaximumInterval:  p.MaximumInterval,
		DisableFuzz:      p.DisableFuzz,
	}
	if p.LearningSteps != nil {
		s.LearningSteps = durations(p.LearningSteps)
	}
	if p.RelearningSteps != nil {
		s.RelearningSteps = durations(p.RelearningSteps)
	}
	if len(p.Weights) == 21 {
		copy(s.Weights[:], p.Weights)
	}
	return s, nil
}

// Window returns the queue-ordering window, falling back to the engine
// default when unset or non-positive.
func (p *Profile) Window() time.Duration {
	if p.QueueWindow <= 0 {
		return sprout.DefaultQueueWindow
	}
	return time.Duration(p.QueueWindow)
}

func durations(ds []Duration) []time.Duration {
	out := make([]time.Duration, len(ds))
	for i, d := range ds {
		out[i] = time.Duration(d)
	}
	return out
}
