package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoissonPMF(t *testing.T) {
	// known value: P(0; 1.0) = e^-1
	assert.InDelta(t, 0.3679, PoissonPMF(0, 1.0), 0.0001)
	assert.InDelta(t, 0.3679, PoissonPMF(1, 1.0), 0.0001)

	// negative counts are impossible
	assert.Equal(t, 0.0, PoissonPMF(-1, 1.5))

	// numeric trouble fails soft to zero rather than NaN
	assert.Equal(t, 0.0, PoissonPMF(400, 1e308))
}

func TestGoalIntensitiesBounds(t *testing.T) {
	// a shut-out team still gets the floor intensity
	lh, la := GoalIntensities(TeamStats{}, TeamStats{})
	assert.InDelta(t, 0.15, lh, 0.0001) // 0 scored + home bonus
	assert.Equal(t, MinGoalIntensity, la)

	// absurd averages are capped
	hot := TeamStats{GoalsAvgScored: 9.0}
	lh, la = GoalIntensities(hot, hot)
	assert.Equal(t, MaxGoalIntensity, lh)
	assert.Equal(t, MaxGoalIntensity, la)

	// home side always carries the bonus before clamping
	mid := TeamStats{GoalsAvgScored: 1.2}
	lh, la = GoalIntensities(mid, mid)
	assert.InDelta(t, 1.35, lh, 0.0001)
	assert.InDelta(t, 1.2, la, 0.0001)
}

func TestScoreMatrixShapeAndMass(t *testing.T) {
	matrix, err := ScoreMatrix(1.5, 1.1, DefaultMaxGoals)
	require.NoError(t, err)
	require.Len(t, matrix, DefaultMaxGoals+1)
	for _, row := range matrix {
		require.Len(t, row, DefaultMaxGoals+1)
	}

	var mass float64
	for _, row := range matrix {
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
			mass += p
		}
	}
	assert.LessOrEqual(t, mass, 1.0+1e-9)
	assert.Greater(t, mass, 0.95)

	// a larger bound recovers more of the truncated tail
	bigger, err := ScoreMatrix(1.5, 1.1, 15)
	require.NoError(t, err)
	var biggerMass float64
	for _, row := range bigger {
		for _, p := range row {
			biggerMass += p
		}
	}
	assert.Greater(t, biggerMass, mass)
	assert.InDelta(t, 1.0, biggerMass, 0.0001)
}

func TestScoreMatrixRejectsTinyBound(t *testing.T) {
	_, err := ScoreMatrix(1.0, 1.0, 2)
	assert.Error(t, err)
}
