package predict

import "math"

// statsPrecision is the number of decimal places team statistics are rounded
// to for display stability
const statsPrecision = 3

// TeamStats is the derived per-team view of a match set. Goal averages are
// non-negative reals, the remaining fields are rates in [0,1]. A team that
// appears in none of the matches gets the zero value.
type TeamStats struct {
	GoalsAvgScored     float64 `json:"goalsAvgScored"`
	GoalsAvgConceded   float64 `json:"goalsAvgConceded"`
	HalfTimeWinRate    float64 `json:"halfTimeWinRate"`
	SecondHalfWinRate  float64 `json:"secondHalfWinRate"`
	BothTeamsScoreRate float64 `json:"bothTeamsScoreRate"`
}

// AggregateTeamStats computes the rate statistics for one team over a match
// set. Only matches the team actually appears in are counted; the divisor is
// that appearance count, never the list length. Half-time and second-half
// wins require a strict lead; the second-half comparison uses each side's
// second-half goals specifically, the same way for home and away
// appearances. Both-teams-scored counts once per match regardless of which
// side the team was on.
func AggregateTeamStats(matches []*Match, teamID int) TeamStats {
	var (
		goalsScored    int
		goalsConceded  int
		halfTimeWins   int
		secondHalfWins int
		bothTeamsScore int
		games          int
	)

	for _, match := range matches {
		if !match.Involves(teamID) {
			continue
		}

		homeGoals, awayGoals := match.FullTimeGoals()
		homeHalf, awayHalf := match.HalfTimeGoals()
		homeSecond, awaySecond := match.SecondHalfGoals()

		games++

		if match.HomeID == teamID {
			goalsScored += homeGoals
			goalsConceded += awayGoals
			if homeHalf > awayHalf {
				halfTimeWins++
			}
			if homeSecond > awaySecond {
				secondHalfWins++
			}
		} else {
			goalsScored += awayGoals
			goalsConceded += homeGoals
			if awayHalf > homeHalf {
				halfTimeWins++
			}
			if awaySecond > homeSecond {
				secondHalfWins++
			}
		}

		if homeGoals > 0 && awayGoals > 0 {
			bothTeamsScore++
		}
	}

	if games == 0 {
		return TeamStats{}
	}

	n := float64(games)
	return TeamStats{
		GoalsAvgScored:     roundTo(float64(goalsScored)/n, statsPrecision),
		GoalsAvgConceded:   roundTo(float64(goalsConceded)/n, statsPrecision),
		HalfTimeWinRate:    roundTo(float64(halfTimeWins)/n, statsPrecision),
		SecondHalfWinRate:  roundTo(float64(secondHalfWins)/n, statsPrecision),
		BothTeamsScoreRate: roundTo(float64(bothTeamsScore)/n, statsPrecision),
	}
}

// roundTo rounds a value to the given number of decimal places
func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
