package optimizer

import (
	"math"

	sprout "github.com/ctrlaltwill/Sprout-sub005"
)

const bceClamp = 1e-7

// bceLoss computes the binary cross-entropy loss: -[y*ln(p) + (1-y)*ln(1-p)].
// rPred is clamped to [bceClamp, 1-bceClamp] to keep the logs finite.
func bceLoss(rPred, y float64) float64 {
	p := math.Max(bceClamp, math.Min(rPred, 1-bceClamp))
	return -(y*math.Log(p) + (1-y)*math.Log(1-p))
}

// computeBatchLoss computes the average BCE loss over all cross-day
// reviews. It builds a scheduler from the weights and replays each card's
// history through it, comparing predicted retrievability against the
// recall label. Returns 0 when there are no cross-day reviews or when the
// weights cannot build a scheduler.
func computeBatchLoss(weights [21]float64, data map[string][]review) float64 {
	sched, err := sprout.NewScheduler(sprout.Settings{
		Weights:     weights,
		DisableFuzz: true,
	})
	if err != nil {
		return 0
	}

	var totalLoss float64
	var count int

	for _, reviews := range data {
		state := sprout.NewCardState(reviews[0].reviewedAt)

		for _, rev := range reviews {
			// Predicted recall probability before this review.
			rPred := sched.Retrievability(state, rev.reviewedAt)

			// Only cross-day reviews of an already-seen card carry
			// forgetting-curve signal.
			if rPred != nil && state.LastReviewed != nil && rev.elapsedDays >= 1.0 {
				totalLoss += bceLoss(*rPred, rev.label)
				count++
			}

			if res, err := sched.Grade(state, rev.rating, rev.reviewedAt); err == nil {
				state = res.State
			}
		}
	}

	if count == 0 {
		return 0
	}
	return totalLoss / float64(count)
}

const gradEps = 1e-5

// numericalGradient computes the gradient of the batch loss w.r.t. each
// weight using central differences: dL/dw[i] ≈ (L(w[i]+ε) - L(w[i]-ε)) / (2ε).
func numericalGradient(weights [21]float64, data map[string][]review) [21]float64 {
	var grad [21]float64
	for i := 0; i < 21; i++ {
		wPlus := weights
		wPlus[i] += gradEps
		wMinus := weights
		wMinus[i] -= gradEps

		lPlus := computeBatchLoss(wPlus, data)
		lMinus := computeBatchLoss(wMinus, data)

		grad[i] = (lPlus - lMinus) / (2 * gradEps)
	}
	return grad
}
