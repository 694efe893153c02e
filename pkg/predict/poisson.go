package predict

import (
	"fmt"
	"math"
)

const (
	// HomeAdvantageBonus is the fixed expected-goals uplift applied to the
	// home side. A simple heuristic, not a fitted parameter.
	HomeAdvantageBonus = 0.15

	// MinGoalIntensity and MaxGoalIntensity bound the Poisson parameters so
	// that sparse or extreme input data cannot produce a degenerate
	// distribution
	MinGoalIntensity = 0.1
	MaxGoalIntensity = 3.5

	// DefaultMaxGoals is the per-side truncation bound of the score matrix,
	// so the matrix covers scorelines 0-0 through 8-8
	DefaultMaxGoals = 8

	// minMaxGoals is the smallest usable truncation bound; anything lower
	// cannot represent realistic scorelines and indicates a caller bug
	minMaxGoals = 3
)

// GoalIntensities converts the two aggregated team statistics into the
// expected-goals pair (lambdaHome, lambdaAway). The home side gets the
// fixed advantage bonus; both values are clamped into
// [MinGoalIntensity, MaxGoalIntensity].
func GoalIntensities(homeStats, awayStats TeamStats) (lambdaHome, lambdaAway float64) {
	lambdaHome = clamp(homeStats.GoalsAvgScored+HomeAdvantageBonus, MinGoalIntensity, MaxGoalIntensity)
	lambdaAway = clamp(awayStats.GoalsAvgScored, MinGoalIntensity, MaxGoalIntensity)
	return lambdaHome, lambdaAway
}

// PoissonPMF returns the probability of observing exactly k events with
// expected rate lambda. Fails soft: numeric trouble for large k yields 0.0
// rather than an error, which only matters beyond the truncation bound
// where the true probabilities are vanishingly small anyway.
func PoissonPMF(k int, lambda float64) float64 {
	if k < 0 {
		return 0.0
	}
	p := math.Exp(-lambda) * math.Pow(lambda, float64(k)) / factorial(k)
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0.0
	}
	return p
}

func factorial(k int) float64 {
	result := 1.0
	for i := 2; i <= k; i++ {
		result *= float64(i)
	}
	return result
}

// ScoreMatrix builds the joint scoreline probability table for two
// independent Poisson-distributed goal counts. Cell (i,j) is the modeled
// probability of a final score of i-j for i,j in [0,maxGoals]. The total
// mass is slightly below 1 because scores beyond maxGoals are truncated.
//
// An out-of-range bound is a contract breach by the caller and fails fast.
func ScoreMatrix(lambdaHome, lambdaAway float64, maxGoals int) ([][]float64, error) {
	if maxGoals < minMaxGoals {
		return nil, fmt.Errorf("goal bound must be at least %d, got: %d", minMaxGoals, maxGoals)
	}

	matrix := make([][]float64, maxGoals+1)
	for i := 0; i <= maxGoals; i++ {
		matrix[i] = make([]float64, maxGoals+1)
		pi := PoissonPMF(i, lambdaHome)
		for j := 0; j <= maxGoals; j++ {
			matrix[i][j] = pi * PoissonPMF(j, lambdaAway)
		}
	}
	return matrix, nil
}

// clamp bounds a value into [min, max]
func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
