// Package stats derives collection-level analytics from card records,
// their scheduling states, and accumulated review logs: stage
// composition, due-load counts, memory-model averages, and a short-term
// due forecast. Everything is computed on the fly from the caller's
// data; nothing is persisted.
package stats

import (
	"fmt"
	"time"

	sprout "github.com/ctrlaltwill/Sprout-sub005"
)

// dueSoonHorizonDays is how many local days past today the DueSoon count
// looks ahead.
const dueSoonHorizonDays = 3

// Snapshot is a point-in-time aggregate of a card collection. Wrapper
// records (cloze and occlusion parents) are skipped entirely; suspended
// cards count toward TotalCards and SuspendedCards but stay out of the
// due counts and the averages.
type Snapshot struct {
	TotalCards int `json:"total_cards"`

	NewCards        int `json:"new_cards"`
	LearningCards   int `json:"learning_cards"`
	ReviewCards     int `json:"review_cards"`
	RelearningCards int `json:"relearning_cards"`
	SuspendedCards  int `json:"suspended_cards"`

	// Overdue counts cards whose due fell on an earlier local day;
	// DueToday counts dues anywhere in today; DueSoon looks three local
	// days further. The three are disjoint; today's study load is
	// Overdue plus DueToday.
	Overdue  int `json:"overdue"`
	DueToday int `json:"due_today"`
	DueSoon  int `json:"due_soon"`

	// Averages run over the cards carrying the measure: stability and
	// difficulty over graded cards, interval over reviewed cards, and
	// retrievability over cards with evaluable memory. All are 0 when no
	// card qualifies.
	AvgStabilityDays   float64 `json:"avg_stability_days"`
	AvgDifficulty      float64 `json:"avg_difficulty"`
	AvgIntervalDays    float64 `json:"avg_interval_days"`
	MeanRetrievability float64 `json:"mean_retrievability"`
}

// Collect computes a Snapshot of the collection as of now. A record with
// no stored state has never been scheduled and counts as a new card due
// today. Settings are needed for the retrievability curve; invalid
// settings return an error.
func Collect(records []sprout.CardRecord, states map[string]sprout.CardState, settings sprout.Settings, now time.Time) (Snapshot, error) {
	scheduler, err := sprout.NewScheduler(settings)
	if err != nil {
		return Snapshot{}, fmt.Errorf("stats: %w", err)
	}

	dayStart := startOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	soonEnd := dayEnd.AddDate(0, 0, dueSoonHorizonDays)

	var snap Snapshot
	var (
		stabilitySum  float64
		stabilityN    int
		difficultySum float64
		difficultyN   int
		intervalSum   float64
		intervalN     int
		retrSum       float64
		retrN         int
	)

	for _, rec := range records {
		if !rec.Type.Schedulable() {
			continue
		}
		snap.TotalCards++

		state, ok := states[rec.ID]
		if !ok {
			snap.NewCards++
			snap.DueToday++
			continue
		}

		switch state.Stage {
		case sprout.StageNew:
			snap.NewCards++
		case sprout.StageLearning:
			snap.LearningCards++
		case sprout.StageReview:
			snap.ReviewCards++
		case sprout.StageRelearning:
			snap.RelearningCards++
		case sprout.StageSuspended:
			snap.SuspendedCards++
			continue
		default:
			// Unrecognized stages decode as new cards; count them the
			// same way.
			snap.NewCards++
		}

		switch due := state.Due; {
		case due.IsZero():
			snap.DueToday++
		case due.Before(dayStart):
			snap.Overdue++
		case due.Before(dayEnd):
			snap.DueToday++
		case due.Before(soonEnd):
			snap.DueSoon++
		}

		if state.StabilityDays != nil {
			stabilitySum += *state.StabilityDays
			stabilityN++
		}
		if state.Difficulty != nil {
			difficultySum += *state.Difficulty
			difficultyN++
		}
		if state.LastReviewed != nil {
			intervalSum += float64(state.ScheduledDays)
			intervalN++
		}
		if r := scheduler.Retrievability(state, now); r != nil {
			retrSum += *r
			retrN++
		}
	}

	snap.AvgStabilityDays = mean(stabilitySum, stabilityN)
	snap.AvgDifficulty = mean(difficultySum, difficultyN)
	snap.AvgIntervalDays = mean(intervalSum, intervalN)
	snap.MeanRetrievability = mean(retrSum, retrN)
	return snap, nil
}

// ForecastBucket is one local day of the due forecast.
type ForecastBucket struct {
	Day time.Time `json:"day"`
	Due int       `json:"due"`
}

// Forecast returns the due counts for the next days local days, starting
// with today. Cards already overdue, and cards that have never been
// scheduled, fall into today's bucket; suspended cards, wrapper records,
// and dues past the horizon are skipped. days of zero or less returns
// nil.
func Forecast(records []sprout.CardRecord, states map[string]sprout.CardState, days int, now time.Time) []ForecastBucket {
	if days <= 0 {
		return nil
	}

	start := startOfDay(now)
	buckets := make([]ForecastBucket, days)
	for i := range buckets {
		buckets[i].Day = start.AddDate(0, 0, i)
	}
	horizon := start.AddDate(0, 0, days)

	for _, rec := range records {
		if !rec.Type.Schedulable() {
			continue
		}
		state, ok := states[rec.ID]
		if ok && state.Stage == sprout.StageSuspended {
			continue
		}
		if !ok || state.Due.IsZero() || state.Due.Before(start) {
			buckets[0].Due++
			continue
		}
		if !state.Due.Before(horizon) {
			continue
		}

		// Walking the bucket days handles unequal day lengths across
		// daylight-saving transitions.
		idx := 0
		for idx+1 < len(buckets) && !state.Due.Before(buckets[idx+1].Day) {
			idx++
		}
		buckets[idx].Due++
	}
	return buckets
}

// ReviewSummary aggregates graded outcomes from accumulated review logs.
// Accuracy is the share of reviews rated better than again; AvgAnswerMS
// averages only the logs that carry an answer duration.
type ReviewSummary struct {
	TotalReviews int            `json:"total_reviews"`
	Accuracy     float64        `json:"accuracy"`
	ByRating     map[string]int `json:"by_rating"`
	AvgAnswerMS  float64        `json:"avg_answer_ms"`
}

// Summarize folds review logs into a ReviewSummary. ByRating keys are
// the rating wire names.
func Summarize(logs []sprout.ReviewLog) ReviewSummary {
	sum := ReviewSummary{ByRating: make(map[string]int, 4)}
	recalled := 0
	var durSum float64
	var durN int

	for _, log := range logs {
		sum.TotalReviews++
		sum.ByRating[log.Rating.String()]++
		if log.Rating != sprout.RatingAgain {
			recalled++
		}
		if log.DurationMS != nil {
			durSum += float64(*log.DurationMS)
			durN++
		}
	}

	if sum.TotalReviews > 0 {
		sum.Accuracy = float64(recalled) / float64(sum.TotalReviews)
	}
	sum.AvgAnswerMS = mean(durSum, durN)
	return sum
}

// startOfDay returns midnight of t's local day, the same day boundary
// burying uses.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
