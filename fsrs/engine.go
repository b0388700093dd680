package fsrs

import (
	"fmt"
	"math/rand"
	"time"
)

// Config configures an Engine.
// Zero values produce sensible defaults; see field comments.
type Config struct {
	Weights          [21]float64     `json:"weights"`           // zero → DefaultWeights
	DesiredRetention float64         `json:"desired_retention"` // zero → 0.9
	LearningSteps    []time.Duration `json:"learning_steps"`    // nil → [1m, 10m]; empty → no steps
	RelearningSteps  []time.Duration `json:"relearning_steps"`  // nil → [10m]; empty → no steps
	MaximumInterval  int             `json:"maximum_interval"`  // zero → 36500
	DisableFuzz      bool            `json:"disable_fuzz"`      // zero false → fuzz enabled
}

// Engine advances card memory state using the FSRS v6 model.
type Engine struct {
	curve            curve
	desiredRetention float64
	learningSteps    []time.Duration
	relearningSteps  []time.Duration
	maximumInterval  int
	disableFuzz      bool
	rng              *rand.Rand
}

// NewEngine creates an Engine from the given config.
// Zero-value fields are filled with defaults; invalid values return an error.
func NewEngine(cfg Config) (*Engine, error) {
	// Weights: zero array → defaults.
	w := cfg.Weights
	if w == [21]float64{} {
		w = DefaultWeights
	}
	if err := ValidateWeights(w); err != nil {
		return nil, err
	}

	// DesiredRetention: zero → 0.9.
	dr := cfg.DesiredRetention
	if dr == 0 {
		dr = 0.9
	}
	if dr < 0 || dr > 1 {
		return nil, fmt.Errorf("%w: desired retention %f out of range (0, 1]", ErrInvalidConfig, dr)
	}

	// MaximumInterval: zero → 36500.
	maxIvl := cfg.MaximumInterval
	if maxIvl == 0 {
		maxIvl = 36500
	}
	if maxIvl < 0 {
		return nil, fmt.Errorf("%w: maximum interval %d must be positive", ErrInvalidConfig, maxIvl)
	}

	// LearningSteps: nil → defaults.
	ls := cfg.LearningSteps
	if ls == nil {
		ls = []time.Duration{time.Minute, 10 * time.Minute}
	}

	// RelearningSteps: nil → defaults.
	rs := cfg.RelearningSteps
	if rs == nil {
		rs = []time.Duration{10 * time.Minute}
	}

	return &Engine{
		curve:            newCurve(w),
		desiredRetention: dr,
		learningSteps:    ls,
		relearningSteps:  rs,
		maximumInterval:  maxIvl,
		disableFuzz:      cfg.DisableFuzz,
		rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Weights returns the engine's weight vector.
func (e *Engine) Weights() [21]float64 {
	return e.curve.w
}

// Advance applies one grading to the card at the given time and returns the
// updated card. The input card is not mutated.
//
// Elapsed time since the previous grading is measured in whole days; a
// same-day grading (under one day) updates stability via the short-term
// formula. Reps always increments; Lapses increments only on GradeAgain
// from Review or Relearning.
func (e *Engine) Advance(card Card, g Grade, now time.Time) Card {
	c := card.clone()

	var elapsed float64
	if c.LastReview != nil {
		elapsed = ElapsedDays(*c.LastReview, now)
	}

	e.updateMemory(&c, g, elapsed)

	// A first grading enters the learning-step machine.
	if c.State == New {
		c.State = Learning
		if c.Step == nil {
			c.setStep(0)
		}
	}

	interval := e.transition(&c, g, e.stepsFor(c.State))

	// Apply fuzz if enabled and final state is Review.
	if !e.disableFuzz && c.State == Review {
		days := int(interval.Hours() / 24.0)
		if days > 0 {
			fuzzed := fuzzInterval(days, e.maximumInterval, e.rng)
			interval = time.Duration(fuzzed) * 24 * time.Hour
		}
	}

	c.ScheduledDays = interval.Hours() / 24.0
	c.Due = now.Add(interval)
	c.LastReview = &now

	c.Reps++
	if g == GradeAgain && (card.State == Review || card.State == Relearning) {
		c.Lapses++
	}

	return c
}

// Retrievability returns R(elapsedDays, stability), the probability of
// recall after the given elapsed time. Returns 0 when stability is not
// positive.
func (e *Engine) Retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	return e.curve.retrievability(elapsedDays, stability)
}

// CardRetrievability returns the probability of recall for the card at the
// given time. Returns 0 if the card has never been graded or has no
// stability.
func (e *Engine) CardRetrievability(card Card, now time.Time) float64 {
	if card.LastReview == nil || card.Stability == nil {
		return 0
	}
	return e.Retrievability(ElapsedDays(*card.LastReview, now), *card.Stability)
}

// updateMemory updates the card's stability and difficulty for the grading.
func (e *Engine) updateMemory(c *Card, g Grade, elapsedDays float64) {
	if c.Stability == nil || c.Difficulty == nil {
		// First grading, or memory parameters lost: initialize S and D.
		c.setStability(e.curve.initialStability(g))
		c.setDifficulty(e.curve.initialDifficulty(g, true))
		return
	}

	stability := *c.Stability
	difficulty := *c.Difficulty

	if elapsedDays < 1 {
		// Same-day grading.
		c.setStability(e.curve.shortTermStability(stability, g))
	} else {
		// Cross-day grading.
		r := e.curve.retrievability(elapsedDays, stability)
		c.setStability(e.curve.nextStability(difficulty, stability, r, g))
	}
	c.setDifficulty(e.curve.nextDifficulty(difficulty, g))
}

// stepsFor returns the step durations for the given state.
func (e *Engine) stepsFor(state State) []time.Duration {
	switch state {
	case Learning:
		return e.learningSteps
	case Relearning:
		return e.relearningSteps
	default:
		return nil
	}
}

// transition applies the state machine logic and returns the scheduling interval.
func (e *Engine) transition(c *Card, g Grade, steps []time.Duration) time.Duration {
	switch c.State {
	case Learning, Relearning:
		return e.advanceSteps(c, g, steps)
	default:
		return e.advanceReview(c, g)
	}
}

// advanceSteps handles Learning and Relearning transitions.
func (e *Engine) advanceSteps(c *Card, g Grade, steps []time.Duration) time.Duration {
	step := 0
	if c.Step != nil {
		step = *c.Step
	}

	// Empty steps or step overflow → graduate to Review.
	if len(steps) == 0 || (step >= len(steps) && g != GradeAgain) {
		return e.graduate(c)
	}

	switch g {
	case GradeAgain:
		c.setStep(0)
		return steps[0]

	case GradeHard:
		if step == 0 && len(steps) == 1 {
			return time.Duration(float64(steps[0]) * 1.5)
		}
		if step == 0 && len(steps) >= 2 {
			return (steps[0] + steps[1]) / 2
		}
		return steps[step]

	case GradeGood:
		nextStep := step + 1
		if nextStep >= len(steps) {
			// Last step → graduate.
			return e.graduate(c)
		}
		c.setStep(nextStep)
		return steps[nextStep]

	default:
		return e.graduate(c)
	}
}

// advanceReview handles transitions out of the Review state.
func (e *Engine) advanceReview(c *Card, g Grade) time.Duration {
	if g == GradeAgain {
		if len(e.relearningSteps) > 0 {
			c.State = Relearning
			c.setStep(0)
			return e.relearningSteps[0]
		}
		// Empty relearning steps → stay Review with a model interval.
	}

	// Hard, Good, Easy, or Again with empty relearning steps.
	c.clearStep()
	days := e.curve.interval(*c.Stability, e.desiredRetention, e.maximumInterval)
	return time.Duration(days) * 24 * time.Hour
}

// graduate transitions a card from Learning/Relearning to Review.
func (e *Engine) graduate(c *Card) time.Duration {
	c.State = Review
	c.clearStep()
	days := e.curve.interval(*c.Stability, e.desiredRetention, e.maximumInterval)
	return time.Duration(days) * 24 * time.Hour
}
