package optimizer

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"
	"time"

	sprout "github.com/ctrlaltwill/Sprout-sub005"
)

var (
	// ErrInsufficientLogs is returned when fewer than 512 review logs are provided.
	ErrInsufficientLogs = errors.New("optimizer: at least 512 review logs required for optimal retention")

	// ErrMissingDuration is returned when any log lacks a duration.
	ErrMissingDuration = errors.New("optimizer: DurationMS must not be nil for optimal retention")
)

// retentionCandidates are the desired-retention values the simulation
// compares. They span the range the scheduler accepts without clamping.
var retentionCandidates = []float64{0.80, 0.85, 0.90, 0.95, 0.97}

// computeProbsAndCosts derives rating probabilities and average answer
// durations from review logs. "First review" is the first review of each
// card; everything after is "non-first". Non-first recall probabilities
// are computed among recalled reviews only (Again excluded).
func computeProbsAndCosts(logs []sprout.ReviewLog) map[string]float64 {
	// Group by card and sort by time to identify first vs non-first.
	type entry struct {
		rating   sprout.Rating
		duration float64
		time     time.Time
	}
	groups := make(map[string][]entry)
	for _, log := range logs {
		d := 0.0
		if log.DurationMS != nil {
			d = float64(*log.DurationMS)
		}
		groups[log.CardID] = append(groups[log.CardID], entry{
			rating:   log.Rating,
			duration: d,
			time:     log.ReviewedAt,
		})
	}
	for _, g := range groups {
		sort.Slice(g, func(i, j int) bool {
			return g[i].time.Before(g[j].time)
		})
	}

	// Counters for first reviews.
	var firstTotal float64
	firstCount := map[sprout.Rating]float64{}
	firstDurSum := map[sprout.Rating]float64{}
	firstDurCount := map[sprout.Rating]float64{}

	// Counters for non-first reviews.
	var recallTotal float64
	recallCount := map[sprout.Rating]float64{}
	nonFirstDurSum := map[sprout.Rating]float64{}
	nonFirstDurCount := map[sprout.Rating]float64{}

	for _, g := range groups {
		for i, e := range g {
			if i == 0 {
				firstTotal++
				firstCount[e.rating]++
				firstDurSum[e.rating] += e.duration
				firstDurCount[e.rating]++
			} else {
				nonFirstDurSum[e.rating] += e.duration
				nonFirstDurCount[e.rating]++
				if e.rating != sprout.RatingAgain {
					recallTotal++
					recallCount[e.rating]++
				}
			}
		}
	}

	m := make(map[string]float64)

	// First-review probabilities.
	if firstTotal > 0 {
		m["prob_first_again"] = firstCount[sprout.RatingAgain] / firstTotal
		m["prob_first_hard"] = firstCount[sprout.RatingHard] / firstTotal
		m["prob_first_good"] = firstCount[sprout.RatingGood] / firstTotal
		m["prob_first_easy"] = firstCount[sprout.RatingEasy] / firstTotal
	}

	// First-review average durations.
	for _, r := range []sprout.Rating{sprout.RatingAgain, sprout.RatingHard, sprout.RatingGood, sprout.RatingEasy} {
		key := "avg_first_" + r.String() + "_duration"
		if firstDurCount[r] > 0 {
			m[key] = firstDurSum[r] / firstDurCount[r]
		}
	}

	// Non-first recall probabilities (among Hard/Good/Easy only).
	if recallTotal > 0 {
		m["prob_hard"] = recallCount[sprout.RatingHard] / recallTotal
		m["prob_good"] = recallCount[sprout.RatingGood] / recallTotal
		m["prob_easy"] = recallCount[sprout.RatingEasy] / recallTotal
	} else {
		// Uniform when there is no recall data.
		m["prob_hard"] = 1.0 / 3.0
		m["prob_good"] = 1.0 / 3.0
		m["prob_easy"] = 1.0 / 3.0
	}

	// Non-first average durations.
	for _, r := range []sprout.Rating{sprout.RatingAgain, sprout.RatingHard, sprout.RatingGood, sprout.RatingEasy} {
		key := "avg_" + r.String() + "_duration"
		if nonFirstDurCount[r] > 0 {
			m[key] = nonFirstDurSum[r] / nonFirstDurCount[r]
		}
	}

	return m
}

// simulateCost runs a Monte Carlo simulation of 1000 cards over one year
// and estimates the study cost per retained card at the given desired
// retention.
func simulateCost(retention float64, weights [21]float64, probsAndCosts map[string]float64) float64 {
	const numCards = 1000

	sched, err := sprout.NewScheduler(sprout.Settings{
		Weights:          weights,
		DesiredRetention: retention,
		DisableFuzz:      true,
	})
	if err != nil {
		return math.Inf(1)
	}

	rng := rand.New(rand.NewSource(42))

	startDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Extract probabilities and costs.
	pfAgain := probsAndCosts["prob_first_again"]
	pfHard := probsAndCosts["prob_first_hard"]
	pfGood := probsAndCosts["prob_first_good"]
	// pfEasy is the remainder.

	dFirstAgain := probsAndCosts["avg_first_again_duration"]
	dFirstHard := probsAndCosts["avg_first_hard_duration"]
	dFirstGood := probsAndCosts["avg_first_good_duration"]
	dFirstEasy := probsAndCosts["avg_first_easy_duration"]

	pHard := probsAndCosts["prob_hard"]
	pGood := probsAndCosts["prob_good"]
	// pEasy is the remainder.

	dAgain := probsAndCosts["avg_again_duration"]
	dHard := probsAndCosts["avg_hard_duration"]
	dGood := probsAndCosts["avg_good_duration"]
	dEasy := probsAndCosts["avg_easy_duration"]

	var totalDuration float64

	for i := 0; i < numCards; i++ {
		state := sprout.NewCardState(startDate)
		now := startDate
		isFirst := true

		for !now.After(endDate) {
			var rating sprout.Rating
			var dur float64

			if isFirst {
				// Draw the first rating from first-review probabilities.
				p := rng.Float64()
				switch {
				case p < pfAgain:
					rating = sprout.RatingAgain
					dur = dFirstAgain
				case p < pfAgain+pfHard:
					rating = sprout.RatingHard
					dur = dFirstHard
				case p < pfAgain+pfHard+pfGood:
					rating = sprout.RatingGood
					dur = dFirstGood
				default:
					rating = sprout.RatingEasy
					dur = dFirstEasy
				}
				isFirst = false
			} else {
				// Recall with probability = retention, else Again.
				if rng.Float64() < retention {
					p := rng.Float64()
					switch {
					case p < pHard:
						rating = sprout.RatingHard
						dur = dHard
					case p < pHard+pGood:
						rating = sprout.RatingGood
						dur = dGood
					default:
						rating = sprout.RatingEasy
						dur = dEasy
					}
				} else {
					rating = sprout.RatingAgain
					dur = dAgain
				}
			}

			totalDuration += dur
			res, err := sched.Grade(state, rating, now)
			if err != nil {
				return math.Inf(1)
			}
			state = res.State
			now = state.Due
		}
	}

	return totalDuration / (retention * numCards)
}

// ComputeOptimalRetention finds the candidate retention with the lowest
// simulated cost. It requires at least 512 logs, all carrying DurationMS,
// and checks for context cancellation between candidates.
func (o *Optimizer) ComputeOptimalRetention(ctx context.Context, weights [21]float64, logs []sprout.ReviewLog) (float64, error) {
	if len(logs) < 512 {
		return 0, ErrInsufficientLogs
	}
	for _, log := range logs {
		if log.DurationMS == nil {
			return 0, ErrMissingDuration
		}
	}

	probsAndCosts := computeProbsAndCosts(logs)

	bestRetention := retentionCandidates[0]
	bestCost := math.Inf(1)

	for _, c := range retentionCandidates {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		cost := simulateCost(c, weights, probsAndCosts)
		if cost < bestCost {
			bestCost = cost
			bestRetention = c
		}
	}

	return bestRetention, nil
}
