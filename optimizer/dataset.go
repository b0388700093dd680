package optimizer

import (
	"sort"
	"time"

	sprout "github.com/ctrlaltwill/Sprout-sub005"
)

// review is the internal per-event training representation.
type review struct {
	rating      sprout.Rating
	elapsedDays float64   // fractional days since the previous review (0 for the first)
	label       float64   // 0 if Again, 1 otherwise
	reviewedAt  time.Time // original timestamp, for scheduler replay
}

// formatLogs groups review logs by card ID and sorts each group by time.
// Each review gets the elapsed days from its predecessor and a binary
// recall label.
func formatLogs(logs []sprout.ReviewLog) map[string][]review {
	if len(logs) == 0 {
		return nil
	}

	groups := make(map[string][]sprout.ReviewLog)
	for _, log := range logs {
		groups[log.CardID] = append(groups[log.CardID], log)
	}

	result := make(map[string][]review, len(groups))
	for cardID, cardLogs := range groups {
		sort.Slice(cardLogs, func(i, j int) bool {
			return cardLogs[i].ReviewedAt.Before(cardLogs[j].ReviewedAt)
		})

		reviews := make([]review, len(cardLogs))
		for i, log := range cardLogs {
			var elapsed float64
			if i > 0 {
				elapsed = log.ReviewedAt.Sub(cardLogs[i-1].ReviewedAt).Hours() / 24.0
			}

			label := 1.0
			if log.Rating == sprout.RatingAgain {
				label = 0.0
			}

			reviews[i] = review{
				rating:      log.Rating,
				elapsedDays: elapsed,
				label:       label,
				reviewedAt:  log.ReviewedAt,
			}
		}
		result[cardID] = reviews
	}

	return result
}

// countCrossDayReviews counts reviews with elapsedDays >= 1. The first
// review of a card is never cross-day.
func countCrossDayReviews(data map[string][]review) int {
	count := 0
	for _, reviews := range data {
		for _, r := range reviews {
			if r.elapsedDays >= 1.0 {
				count++
			}
		}
	}
	return count
}
