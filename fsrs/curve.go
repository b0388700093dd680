package fsrs

import "math"

// curve holds precomputed constants derived from the 21 FSRS weights.
type curve struct {
	w      [21]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1
}

// newCurve creates a curve with precomputed decay and factor.
func newCurve(w [21]float64) curve {
	decay := -w[20]
	factor := math.Pow(0.9, 1.0/decay) - 1.0
	return curve{w: w, decay: decay, factor: factor}
}

// retrievability computes R(t, S) = (1 + FACTOR * t / S) ^ DECAY.
func (c *curve) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+c.factor*elapsedDays/stability, c.decay)
}

// initialStability returns the first-grading stability S₀(G) = clamp_s(w[G-1]).
func (c *curve) initialStability(g Grade) float64 {
	return clampStability(c.w[g-1])
}

// initialDifficulty returns the first-grading difficulty D₀(G).
// D₀(G) = w[4] - e^(w[5] * (G - 1)) + 1
// When clamp is true, the result is clamped to [1, 10].
func (c *curve) initialDifficulty(g Grade, clamp bool) float64 {
	d := c.w[4] - math.Exp(c.w[5]*float64(g-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// interval computes the next review interval in days.
// I(r, S) = round((S / FACTOR) * (r^(1/DECAY) - 1)), clamped to [1, maxDays].
func (c *curve) interval(stability, desiredRetention float64, maxDays int) int {
	ivl := stability / c.factor * (math.Pow(desiredRetention, 1.0/c.decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > maxDays {
		days = maxDays
	}
	return days
}

// shortTermStability computes the same-day review stability.
// SInc = e^(w[17] * (G - 3 + w[18])) * S^(-w[19])
// If G ∈ {Good, Easy}: SInc = max(SInc, 1.0)
// S' = clamp_s(S * SInc)
func (c *curve) shortTermStability(stability float64, g Grade) float64 {
	sInc := math.Exp(c.w[17]*(float64(g)-3+c.w[18])) * math.Pow(stability, -c.w[19])
	if g == GradeGood || g == GradeEasy {
		sInc = math.Max(sInc, 1.0)
	}
	return clampStability(stability * sInc)
}

// nextDifficulty computes the updated difficulty after a grading.
// ΔD = -w[6] * (G - 3)
// D' = D + (10 - D) * ΔD / 9     (linear damping)
// D'' = w[7]*D₀(Easy) + (1-w[7])*D'  (mean reversion)
// D'' = clamp_d(D'')
func (c *curve) nextDifficulty(difficulty float64, g Grade) float64 {
	deltaD := -c.w[6] * (float64(g) - 3)
	dPrime := difficulty + (10-difficulty)*deltaD/9
	d0Easy := c.initialDifficulty(GradeEasy, false) // mean reversion target, unclamped
	dDoublePrime := c.w[7]*d0Easy + (1-c.w[7])*dPrime
	return clampDifficulty(dDoublePrime)
}

// nextStability dispatches to recallStability or forgetStability.
func (c *curve) nextStability(d, s, r float64, g Grade) float64 {
	if g == GradeAgain {
		return c.forgetStability(d, s, r)
	}
	return c.recallStability(d, s, r, g)
}

// recallStability computes stability after a successful recall (Hard/Good/Easy).
// S'_r = S * (1 + e^w[8] * (11-D) * S^(-w[9]) * (e^((1-R)*w[10]) - 1) * hardPenalty * easyBonus)
func (c *curve) recallStability(d, s, r float64, g Grade) float64 {
	hardPenalty := 1.0
	if g == GradeHard {
		hardPenalty = c.w[15]
	}
	easyBonus := 1.0
	if g == GradeEasy {
		easyBonus = c.w[16]
	}
	return s * (1 + math.Exp(c.w[8])*
		(11-d)*
		math.Pow(s, -c.w[9])*
		(math.Exp((1-r)*c.w[10])-1)*
		hardPenalty*easyBonus)
}

// forgetStability computes stability after forgetting (Again).
// S'_f = min(long, short)
// long = w[11] * D^(-w[12]) * ((S+1)^w[13] - 1) * e^((1-R)*w[14])
// short = S / e^(w[17] * w[18])
func (c *curve) forgetStability(d, s, r float64) float64 {
	long := c.w[11] *
		math.Pow(d, -c.w[12]) *
		(math.Pow(s+1, c.w[13]) - 1) *
		math.Exp((1-r)*c.w[14])
	short := s / math.Exp(c.w[17]*c.w[18])
	return math.Min(long, short)
}

// clampStability clamps stability to a minimum of 0.001.
func clampStability(s float64) float64 {
	return math.Max(s, 0.001)
}

// clampDifficulty clamps difficulty to [1, 10].
func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}
