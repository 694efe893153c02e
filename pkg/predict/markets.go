package predict

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoData is returned by Predict when the filtered match set is empty.
// It is a normal outcome, not a failure: the caller shows a "no data"
// notice instead of a prediction panel.
var ErrNoData = errors.New("no match data to predict from")

// Outcome is a 1X2 market pick
type Outcome string

const (
	OutcomeHome Outcome = "1"
	OutcomeDraw Outcome = "X"
	OutcomeAway Outcome = "2"
)

// DoubleChance covers two of the three 1X2 outcomes combined
type DoubleChance string

const (
	DoubleChanceHomeOrDraw DoubleChance = "1X"
	DoubleChanceDrawOrAway DoubleChance = "X2"
	DoubleChanceHomeOrAway DoubleChance = "12"
)

// OverUnderPick classifies the predicted total-goals line against 2.5
type OverUnderPick string

const (
	PickOver2p5  OverUnderPick = "over"
	PickUnder2p5 OverUnderPick = "under"
)

// YesNo is the both-teams-to-score pick
type YesNo string

const (
	PickYes YesNo = "yes"
	PickNo  YesNo = "no"
)

// Probabilities holds the probability set backing the picks. Home, Draw and
// Away are renormalized so they sum to 1 despite the matrix truncation;
// Over2p5 and BothTeamsScore are the raw matrix sums, consistent with the
// total mass the 1X2 triangles were drawn from.
type Probabilities struct {
	Home           float64 `json:"1"`
	Draw           float64 `json:"X"`
	Away           float64 `json:"2"`
	Over2p5        float64 `json:"over2p5"`
	BothTeamsScore float64 `json:"bothTeamsScore"`
}

// Prediction is the full market output for one pairing
type Prediction struct {
	Result         Outcome       `json:"result"`
	DoubleChance   DoubleChance  `json:"doubleChance"`
	ExactScore     string        `json:"exactScore"`
	ExpectedGoals  float64       `json:"expectedGoals"`
	HalfTimeWinner Outcome       `json:"halfTimeWinner"`
	OverUnder      OverUnderPick `json:"overUnder"`
	BothTeamsScore YesNo         `json:"bothTeamsScore"`
	Probabilities  Probabilities `json:"probabilities"`
}

// Predict runs the whole pipeline for one pairing: aggregate the two team
// stats over the filtered match set, estimate goal intensities, build the
// score matrix and derive every market from it. The match set is expected
// to come from RelevantMatches; an empty set yields ErrNoData.
//
// The function is pure: identical inputs always produce identical outputs
// and no state survives the call.
func Predict(homeID, awayID int, matches []*Match) (*Prediction, error) {
	if homeID <= 0 || awayID <= 0 {
		return nil, fmt.Errorf("invalid team identifiers: home %d, away %d", homeID, awayID)
	}
	if homeID == awayID {
		return nil, fmt.Errorf("home and away team must differ, got %d twice", homeID)
	}
	if len(matches) == 0 {
		return nil, ErrNoData
	}

	homeStats := AggregateTeamStats(matches, homeID)
	awayStats := AggregateTeamStats(matches, awayID)

	lambdaHome, lambdaAway := GoalIntensities(homeStats, awayStats)
	matrix, err := ScoreMatrix(lambdaHome, lambdaAway, DefaultMaxGoals)
	if err != nil {
		return nil, err
	}

	return PredictMarkets(matrix), nil
}

// PredictMarkets derives all market picks from a score probability matrix
func PredictMarkets(matrix [][]float64) *Prediction {
	probs := probabilitiesFromMatrix(matrix)

	bestI, bestJ := mostLikelyScore(matrix)

	return &Prediction{
		Result:         pickOutcome(probs),
		DoubleChance:   pickDoubleChance(probs),
		ExactScore:     fmt.Sprintf("%d-%d", bestI, bestJ),
		ExpectedGoals:  roundTo(expectedTotalGoals(matrix), 2),
		HalfTimeWinner: pickHalfTimeWinner(probs),
		OverUnder:      pickOverUnder(probs),
		BothTeamsScore: pickBothTeamsScore(probs),
		Probabilities:  probs,
	}
}

// probabilitiesFromMatrix sums the outcome triangles and market regions of
// the matrix. The 1X2 triple is renormalized by its own total to absorb the
// truncation shortfall; that total is always positive since every cell of a
// Poisson product matrix is strictly positive.
func probabilitiesFromMatrix(matrix [][]float64) Probabilities {
	var pHome, pDraw, pAway, pOver, pBts float64

	for i, row := range matrix {
		for j, p := range row {
			switch {
			case i > j:
				pHome += p
			case i == j:
				pDraw += p
			default:
				pAway += p
			}
			if i+j > 2 {
				pOver += p
			}
			if i > 0 && j > 0 {
				pBts += p
			}
		}
	}

	total := pHome + pDraw + pAway
	if total > 0 {
		pHome /= total
		pDraw /= total
		pAway /= total
	}

	return Probabilities{
		Home:           roundTo(pHome, 4),
		Draw:           roundTo(pDraw, 4),
		Away:           roundTo(pAway, 4),
		Over2p5:        roundTo(pOver, 4),
		BothTeamsScore: roundTo(pBts, 4),
	}
}

// pickOutcome is the argmax of the normalized 1X2 probabilities, first
// maximum winning in the order 1, X, 2
func pickOutcome(p Probabilities) Outcome {
	best := OutcomeHome
	bestP := p.Home
	if p.Draw > bestP {
		best = OutcomeDraw
		bestP = p.Draw
	}
	if p.Away > bestP {
		best = OutcomeAway
	}
	return best
}

// pickDoubleChance is the argmax over the pairwise sums of the normalized
// 1X2 probabilities, same left-to-right tie-break
func pickDoubleChance(p Probabilities) DoubleChance {
	p1x := p.Home + p.Draw
	px2 := p.Draw + p.Away
	p12 := p.Home + p.Away

	best := DoubleChanceHomeOrDraw
	bestP := p1x
	if px2 > bestP {
		best = DoubleChanceDrawOrAway
		bestP = px2
	}
	if p12 > bestP {
		best = DoubleChanceHomeOrAway
	}
	return best
}

// pickHalfTimeWinner picks the side whose probability is strictly greatest;
// when neither side strictly dominates the draw is the default
func pickHalfTimeWinner(p Probabilities) Outcome {
	if p.Home > math.Max(p.Draw, p.Away) {
		return OutcomeHome
	}
	if p.Away > math.Max(p.Home, p.Draw) {
		return OutcomeAway
	}
	return OutcomeDraw
}

func pickOverUnder(p Probabilities) OverUnderPick {
	if p.Over2p5 >= 0.5 {
		return PickOver2p5
	}
	return PickUnder2p5
}

func pickBothTeamsScore(p Probabilities) YesNo {
	if p.BothTeamsScore >= 0.5 {
		return PickYes
	}
	return PickNo
}

// mostLikelyScore returns the single cell with the strictly highest
// probability, scanning in row-major order so ties resolve to the lowest
// home goals then the lowest away goals
func mostLikelyScore(matrix [][]float64) (int, int) {
	bestI, bestJ := 0, 0
	bestP := -1.0
	for i, row := range matrix {
		for j, p := range row {
			if p > bestP {
				bestP = p
				bestI = i
				bestJ = j
			}
		}
	}
	return bestI, bestJ
}

// expectedTotalGoals is the matrix-implied expected combined goal count:
// the home marginal expectation plus the away marginal expectation
func expectedTotalGoals(matrix [][]float64) float64 {
	var total float64
	for i, row := range matrix {
		for j, p := range row {
			total += float64(i+j) * p
		}
	}
	return total
}
