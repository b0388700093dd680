// Package session runs a single study or practice sitting: it builds the
// card queue for a scope, serves cards in order, applies ratings and
// lifecycle actions through the scheduling core, and accumulates review
// records and counters for the storage, stats, and optimizer
// collaborators.
//
// A study session serves due cards in the windowed anti-clustering order;
// a practice session serves not-yet-due cards in the deterministic
// practice order. Cards whose next due lands back inside the queue window
// (learning and relearning steps) are re-served later in the same sitting.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	sprout "github.com/ctrlaltwill/Sprout-sub005"
)

var (
	// ErrNoCurrentCard is returned by card operations once the queue is
	// exhausted.
	ErrNoCurrentCard = errors.New("session: no current card")

	// ErrUnknownMode is returned by New for a mode it does not recognize.
	ErrUnknownMode = errors.New("session: unknown mode")
)

// Mode selects which cards a session serves.
type Mode string

const (
	ModeStudy    Mode = "study"    // due cards, windowed shuffle order
	ModePractice Mode = "practice" // not-yet-due cards, deterministic order
)

// Config assembles a session. Zero values take defaults: study mode, the
// vault scope, the standard queue window, a time-seeded random source,
// and a disabled logger.
type Config struct {
	Mode     Mode
	Scope    sprout.Scope
	Exclude  map[string]bool
	Settings sprout.Settings
	Window   time.Duration
	Rand     *rand.Rand
	Logger   zerolog.Logger
}

// Counters tallies what happened during a sitting. Reviewed counts grades,
// not unique cards; a re-served learning step counts each time.
type Counters struct {
	Reviewed  int `json:"reviewed"`
	Again     int `json:"again"`
	Buried    int `json:"buried"`
	Suspended int `json:"suspended"`
	Skipped   int `json:"skipped"`
}

// ReviewRecord captures one grading event for replay, statistics, and
// weight fitting. DurationMS is the time the card was on screen, measured
// between serving and grading.
type ReviewRecord struct {
	ID         string              `json:"id"`
	CardID     string              `json:"card_id"`
	Rating     sprout.Rating       `json:"rating"`
	ReviewedAt time.Time           `json:"reviewed_at"`
	DurationMS *int                `json:"duration_ms,omitempty"`
	NextDue    time.Time           `json:"next_due"`
	Metrics    sprout.GradeMetrics `json:"metrics"`
}

// Log converts the record to the optimizer's training input form.
func (r ReviewRecord) Log() sprout.ReviewLog {
	return sprout.ReviewLog{
		CardID:     r.CardID,
		Rating:     r.Rating,
		ReviewedAt: r.ReviewedAt,
		DurationMS: r.DurationMS,
	}
}

// Session is a single sitting over an ordered card queue. It is not safe
// for concurrent use; one learner grades one card at a time.
type Session struct {
	id        string
	mode      Mode
	scheduler *sprout.Scheduler
	window    time.Duration
	logger    zerolog.Logger

	queue    []sprout.CardRecord
	pos      int
	states   map[string]sprout.CardState
	records  []ReviewRecord
	counters Counters
	servedAt time.Time
}

// New builds a session queue from the records and their states as of now.
// The input map is copied; grade and lifecycle results accumulate in the
// session until collected with States.
func New(cfg Config, records []sprout.CardRecord, states map[string]sprout.CardState, now time.Time) (*Session, error) {
	switch cfg.Mode {
	case "":
		cfg.Mode = ModeStudy
	case ModeStudy, ModePractice:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}
	if cfg.Scope == (sprout.Scope{}) {
		cfg.Scope = sprout.VaultScope()
	}
	if cfg.Window <= 0 {
		cfg.Window = sprout.DefaultQueueWindow
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(now.UnixNano()))
	}

	scheduler, err := sprout.NewScheduler(cfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	working := make(map[string]sprout.CardState, len(states))
	for id, st := range states {
		working[id] = st
	}

	var queue []sprout.CardRecord
	switch cfg.Mode {
	case ModeStudy:
		due := sprout.DueCards(records, working, cfg.Scope, cfg.Exclude, now)
		byID := make(map[string]sprout.CardRecord, len(due))
		items := make([]sprout.QueueItem, len(due))
		for i, rec := range due {
			byID[rec.ID] = rec
			items[i] = sprout.QueueItem{ID: rec.ID, Parent: rec.Parent, Due: working[rec.ID].Due}
		}
		ordered := sprout.OrderQueue(items, cfg.Window, cfg.Rand)
		queue = make([]sprout.CardRecord, len(ordered))
		for i, item := range ordered {
			queue[i] = byID[item.ID]
		}
	case ModePractice:
		queue = sprout.PracticeCards(records, working, cfg.Scope, cfg.Exclude, now)
	}

	s := &Session{
		id:        uuid.NewString(),
		mode:      cfg.Mode,
		scheduler: scheduler,
		window:    cfg.Window,
		queue:     queue,
		states:    working,
		servedAt:  now,
	}
	s.logger = cfg.Logger.With().
		Str("component", "session").
		Str("session_id", s.id).
		Logger()

	s.logger.Info().
		Str("mode", string(s.mode)).
		Int("queue_size", len(queue)).
		Dur("window", cfg.Window).
		Msg("session built")

	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the session's mode.
func (s *Session) Mode() Mode { return s.mode }

// Settings returns the normalized settings the session grades with.
func (s *Session) Settings() sprout.Settings { return s.scheduler.Settings() }

// Remaining returns how many cards are left, including re-served steps.
func (s *Session) Remaining() int { return len(s.queue) - s.pos }

// Done reports whether the queue is exhausted.
func (s *Session) Done() bool { return s.pos >= len(s.queue) }

// Current returns the card at the front of the queue.
func (s *Session) Current() (sprout.CardRecord, bool) {
	if s.Done() {
		return sprout.CardRecord{}, false
	}
	return s.queue[s.pos], true
}

// State returns the session's working state for a card, reflecting any
// grades applied during the sitting.
func (s *Session) State(id string) (sprout.CardState, bool) {
	st, ok := s.states[id]
	return st, ok
}

// States returns a copy of all working card states, for the storage
// collaborator to persist.
func (s *Session) States() map[string]sprout.CardState {
	out := make(map[string]sprout.CardState, len(s.states))
	for id, st := range s.states {
		out[id] = st
	}
	return out
}

// Records returns the review records accumulated so far.
func (s *Session) Records() []ReviewRecord {
	out := make([]ReviewRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Logs returns the accumulated records as optimizer training input.
func (s *Session) Logs() []sprout.ReviewLog {
	out := make([]sprout.ReviewLog, len(s.records))
	for i, r := range s.records {
		out[i] = r.Log()
	}
	return out
}

// Counters returns the session tallies so far.
func (s *Session) Counters() Counters { return s.counters }

// Preview returns the four possible grading outcomes for the current
// card, for answer-button due hints.
func (s *Session) Preview(now time.Time) (map[sprout.Rating]sprout.GradeResult, error) {
	rec, ok := s.Current()
	if !ok {
		return nil, ErrNoCurrentCard
	}
	return s.scheduler.Preview(s.stateFor(rec.ID, now), now)
}

// Grade applies a rating to the current card and advances the queue. When
// the new due falls back inside the queue window (a learning or
// relearning step), the card is re-served later in the sitting.
func (s *Session) Grade(rating sprout.Rating, now time.Time) (sprout.GradeResult, error) {
	rec, ok := s.Current()
	if !ok {
		return sprout.GradeResult{}, ErrNoCurrentCard
	}

	res, err := s.scheduler.Grade(s.stateFor(rec.ID, now), rating, now)
	if err != nil {
		return sprout.GradeResult{}, err
	}

	s.states[rec.ID] = res.State
	s.records = append(s.records, ReviewRecord{
		ID:         uuid.NewString(),
		CardID:     rec.ID,
		Rating:     rating,
		ReviewedAt: now,
		DurationMS: s.elapsedMS(now),
		NextDue:    res.NextDue,
		Metrics:    res.Metrics,
	})
	s.counters.Reviewed++
	if rating == sprout.RatingAgain {
		s.counters.Again++
	}

	if res.NextDue.After(now) && !res.NextDue.After(now.Add(s.window)) {
		s.queue = append(s.queue, rec)
	}

	s.logger.Debug().
		Str("card_id", rec.ID).
		Str("rating", rating.String()).
		Str("stage", res.State.Stage.String()).
		Time("next_due", res.NextDue).
		Msg("card graded")

	s.advance(now)
	return res, nil
}

// Bury pushes the current card to the next local day and advances.
func (s *Session) Bury(now time.Time) error {
	rec, ok := s.Current()
	if !ok {
		return ErrNoCurrentCard
	}

	s.states[rec.ID] = sprout.Bury(s.stateFor(rec.ID, now), now)
	s.counters.Buried++

	s.logger.Debug().Str("card_id", rec.ID).Msg("card buried")
	s.advance(now)
	return nil
}

// Suspend removes the current card from scheduling and advances.
func (s *Session) Suspend(now time.Time) error {
	rec, ok := s.Current()
	if !ok {
		return ErrNoCurrentCard
	}

	s.states[rec.ID] = sprout.Suspend(s.stateFor(rec.ID, now), now)
	s.counters.Suspended++

	s.logger.Debug().Str("card_id", rec.ID).Msg("card suspended")
	s.advance(now)
	return nil
}

// Skip advances past the current card without touching its state.
func (s *Session) Skip(now time.Time) error {
	if s.Done() {
		return ErrNoCurrentCard
	}
	s.counters.Skipped++
	s.advance(now)
	return nil
}

// stateFor returns the working state for a card, or a fresh new-card
// state for records that have never been scheduled.
func (s *Session) stateFor(id string, now time.Time) sprout.CardState {
	if st, ok := s.states[id]; ok {
		return st
	}
	return sprout.NewCardState(now)
}

func (s *Session) elapsedMS(now time.Time) *int {
	ms := int(now.Sub(s.servedAt).Milliseconds())
	if ms < 0 {
		ms = 0
	}
	return &ms
}

func (s *Session) advance(now time.Time) {
	s.pos++
	s.servedAt = now
	if s.Done() {
		s.logger.Info().
			Int("reviewed", s.counters.Reviewed).
			Int("again", s.counters.Again).
			Int("buried", s.counters.Buried).
			Int("suspended", s.counters.Suspended).
			Int("skipped", s.counters.Skipped).
			Msg("session complete")
	}
}
