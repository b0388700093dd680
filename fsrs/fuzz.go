package fsrs

import (
	"math"
	"math/rand"
)

type fuzzBand struct {
	start, end float64
	factor     float64
}

var fuzzBands = []fuzzBand{
	{2.5, 7.0, 0.15},
	{7.0, 20.0, 0.10},
	{20.0, math.Inf(1), 0.05},
}

// fuzzSpread computes the fuzz range delta for a given interval.
// delta = 1.0 + Σ(factor * max(min(interval, end) - start, 0))
func fuzzSpread(interval float64) float64 {
	delta := 1.0
	for _, b := range fuzzBands {
		delta += b.factor * math.Max(math.Min(interval, b.end)-b.start, 0)
	}
	return delta
}

// fuzzInterval randomizes the interval to prevent due-date clustering.
// Returns the original interval unchanged if < 2.5 days.
func fuzzInterval(interval, maxDays int, rng *rand.Rand) int {
	if float64(interval) < 2.5 {
		return interval
	}

	ivl := float64(interval)
	delta := fuzzSpread(ivl)

	minIvl := max(2, int(math.Round(ivl-delta)))
	maxIvl := min(int(math.Round(ivl+delta)), maxDays)
	minIvl = min(minIvl, maxIvl)

	fuzzed := int(math.Round(rng.Float64()*float64(maxIvl-minIvl+1))) + minIvl
	fuzzed = min(fuzzed, maxDays)
	return fuzzed
}
