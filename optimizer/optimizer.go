package optimizer

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"

	sprout "github.com/ctrlaltwill/Sprout-sub005"
	"github.com/ctrlaltwill/Sprout-sub005/fsrs"
)

var (
	// ErrEmptyLogs is returned when no review logs are provided.
	ErrEmptyLogs = errors.New("optimizer: no review logs provided")

	// ErrInsufficientData is returned when cross-day reviews are fewer than MiniBatchSize.
	ErrInsufficientData = errors.New("optimizer: insufficient cross-day reviews for optimization")
)

// OptimizerConfig configures the training process.
// Zero values are replaced with sensible defaults.
type OptimizerConfig struct {
	Epochs        int     `json:"epochs"`          // default 5
	MiniBatchSize int     `json:"mini_batch_size"` // default 512
	LearningRate  float64 `json:"learning_rate"`   // default 0.04
	MaxSeqLen     int     `json:"max_seq_len"`     // default 64
}

// Optimizer fits the 21 scheduling weights to a user's review history
// using mini-batch gradient descent with Adam and a cosine annealing
// learning rate.
type Optimizer struct {
	epochs        int
	miniBatchSize int
	learningRate  float64
	maxSeqLen     int
}

// NewOptimizer creates an Optimizer with the given config.
// Zero-valued fields receive defaults: Epochs=5, MiniBatchSize=512,
// LearningRate=0.04, MaxSeqLen=64.
func NewOptimizer(cfg OptimizerConfig) *Optimizer {
	o := &Optimizer{
		epochs:        cfg.Epochs,
		miniBatchSize: cfg.MiniBatchSize,
		learningRate:  cfg.LearningRate,
		maxSeqLen:     cfg.MaxSeqLen,
	}
	if o.epochs == 0 {
		o.epochs = 5
	}
	if o.miniBatchSize == 0 {
		o.miniBatchSize = 512
	}
	if o.learningRate == 0 {
		o.learningRate = 0.04
	}
	if o.maxSeqLen == 0 {
		o.maxSeqLen = 64
	}
	return o
}

// ComputeOptimalParameters fits scheduling weights to the review logs.
// It starts from fsrs.DefaultWeights and uses mini-batch gradient descent
// (numerical central differences) with the Adam optimizer and a cosine
// annealing learning rate.
//
// Returns ErrEmptyLogs if logs is empty, or ErrInsufficientData (along
// with fsrs.DefaultWeights) if cross-day reviews are fewer than
// MiniBatchSize. The context can cancel a long-running fit.
func (o *Optimizer) ComputeOptimalParameters(ctx context.Context, logs []sprout.ReviewLog) ([21]float64, error) {
	if len(logs) == 0 {
		return [21]float64{}, ErrEmptyLogs
	}

	data := formatLogs(logs)

	// Truncate each card's history to maxSeqLen reviews.
	for cardID, reviews := range data {
		if len(reviews) > o.maxSeqLen {
			data[cardID] = reviews[:o.maxSeqLen]
		}
	}

	numReviews := countCrossDayReviews(data)
	if numReviews < o.miniBatchSize {
		return fsrs.DefaultWeights, ErrInsufficientData
	}

	weights := fsrs.DefaultWeights
	tMax := int(math.Ceil(float64(numReviews)/float64(o.miniBatchSize))) * o.epochs
	adam := NewAdam(o.learningRate)
	ca := NewCosineAnnealing(o.learningRate, tMax)
	rng := rand.New(rand.NewSource(42))

	// Sorted card IDs for a deterministic shuffle.
	cardIDs := make([]string, 0, len(data))
	for id := range data {
		cardIDs = append(cardIDs, id)
	}
	sort.Strings(cardIDs)

	bestWeights := weights
	bestLoss := math.Inf(1)

	for epoch := 0; epoch < o.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return bestWeights, err
		}

		rng.Shuffle(len(cardIDs), func(i, j int) {
			cardIDs[i], cardIDs[j] = cardIDs[j], cardIDs[i]
		})

		batchData := make(map[string][]review)
		crossDayCount := 0

		for _, cardID := range cardIDs {
			reviews := data[cardID]
			batchData[cardID] = reviews

			for _, r := range reviews {
				if r.elapsedDays >= 1.0 {
					crossDayCount++
				}
			}

			if crossDayCount >= o.miniBatchSize {
				grad := numericalGradient(weights, batchData)
				adam.SetLR(ca.LR())
				weights = adam.Update(weights, grad)
				weights = clampWeights(weights)
				ca.Step()

				batchData = make(map[string][]review)
				crossDayCount = 0
			}
		}

		// Flush the remaining partial batch at the end of the epoch.
		if crossDayCount > 0 {
			grad := numericalGradient(weights, batchData)
			adam.SetLR(ca.LR())
			weights = adam.Update(weights, grad)
			weights = clampWeights(weights)
			ca.Step()
		}

		// Track the best weights by epoch loss.
		epochLoss := computeBatchLoss(weights, data)
		if epochLoss < bestLoss {
			bestLoss = epochLoss
			bestWeights = weights
		}
	}

	return bestWeights, nil
}

// ComputeBatchLoss computes the average BCE loss of the given weights over
// all cross-day reviews in the logs.
func (o *Optimizer) ComputeBatchLoss(weights [21]float64, logs []sprout.ReviewLog) float64 {
	data := formatLogs(logs)
	return computeBatchLoss(weights, data)
}

// clampWeights constrains each weight to its allowed range.
func clampWeights(weights [21]float64) [21]float64 {
	for i := 0; i < 21; i++ {
		if weights[i] < fsrs.WeightLowerBounds[i] {
			weights[i] = fsrs.WeightLowerBounds[i]
		}
		if weights[i] > fsrs.WeightUpperBounds[i] {
			weights[i] = fsrs.WeightUpperBounds[i]
		}
	}
	return weights
}
