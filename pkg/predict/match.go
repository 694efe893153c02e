package predict

import (
	"encoding/json"
	"fmt"
	"time"
)

// Competition types we consider relevant for prediction. Friendlies and
// records with no competition tag are excluded by the datasource filter.
const (
	CompetitionLeague = "LEAGUE"
	CompetitionCup    = "CUP"
)

// Match represents one finished football match as reported by the data
// provider. Goal fields use -1 to distinguish "not reported" from a valid
// zero; the accessor methods clamp missing values to 0 for aggregation.
type Match struct {
	ID              int       `json:"id"`
	UTCTime         time.Time `json:"utcDate"`
	Status          string    `json:"status"`
	CompetitionType string    `json:"competitionType"`

	HomeID       int    `json:"homeId"`
	AwayID       int    `json:"awayId"`
	HomeTeamName string `json:"homeTeamName"`
	AwayTeamName string `json:"awayTeamName"`

	ActualHomeGoals         int `json:"actualHomeGoals"`
	ActualAwayGoals         int `json:"actualAwayGoals"`
	ActualHalfTimeHomeGoals int `json:"actualHalfTimeHomeGoals"`
	ActualHalfTimeAwayGoals int `json:"actualHalfTimeAwayGoals"`
}

// NewMatch creates a Match with all numeric fields defaulted to -1 so that
// absent provider data is never mistaken for a goalless result
func NewMatch() *Match {
	return &Match{
		ID:                      -1,
		HomeID:                  -1,
		AwayID:                  -1,
		ActualHomeGoals:         -1,
		ActualAwayGoals:         -1,
		ActualHalfTimeHomeGoals: -1,
		ActualHalfTimeAwayGoals: -1,
	}
}

// HasBeenPlayed determines if the match has a reported full-time result
func (m *Match) HasBeenPlayed() bool {
	return m.ActualHomeGoals >= 0 && m.ActualAwayGoals >= 0
}

// Involves returns true if the given team played in this match, home or away
func (m *Match) Involves(teamID int) bool {
	return m.HomeID == teamID || m.AwayID == teamID
}

// IsHeadToHead returns true if the match was contested between the two given
// teams, in either direction
func (m *Match) IsHeadToHead(teamA, teamB int) bool {
	return (m.HomeID == teamA && m.AwayID == teamB) ||
		(m.HomeID == teamB && m.AwayID == teamA)
}

// IsRelevantCompetition reports whether the match counts towards statistics.
// Records missing a competition tag are excluded rather than guessed at.
func (m *Match) IsRelevantCompetition() bool {
	return m.CompetitionType == CompetitionLeague || m.CompetitionType == CompetitionCup
}

// FullTimeGoals returns the full-time score with missing fields clamped to 0
func (m *Match) FullTimeGoals() (home, away int) {
	return goalOrZero(m.ActualHomeGoals), goalOrZero(m.ActualAwayGoals)
}

// HalfTimeGoals returns the half-time score with missing fields clamped to 0
func (m *Match) HalfTimeGoals() (home, away int) {
	return goalOrZero(m.ActualHalfTimeHomeGoals), goalOrZero(m.ActualHalfTimeAwayGoals)
}

// SecondHalfGoals returns goals scored in the second half only, clamped at 0
// so that inconsistent provider data can never produce a negative count
func (m *Match) SecondHalfGoals() (home, away int) {
	fth, fta := m.FullTimeGoals()
	hth, hta := m.HalfTimeGoals()
	return clampGoals(fth - hth), clampGoals(fta - hta)
}

// RecreateScoreStr generates a score string from the full-time goals
func (m *Match) RecreateScoreStr() string {
	if !m.HasBeenPlayed() {
		return ""
	}
	return fmt.Sprintf("%d - %d", m.ActualHomeGoals, m.ActualAwayGoals)
}

func goalOrZero(goals int) int {
	if goals < 0 {
		return 0
	}
	return goals
}

func clampGoals(goals int) int {
	if goals < 0 {
		return 0
	}
	return goals
}

/////////////////////////////////////////////////////////////////////////
////// JSON Processing
/////////////////////////////////////////////////////////////////////////

// ParseMatchFromJSON parses a single provider match record. The provider
// payload nests teams and scores; every field is optional here and missing
// data leaves the -1 defaults in place.
func ParseMatchFromJSON(jsonData []byte) (*Match, error) {
	var rawData map[string]any
	if err := json.Unmarshal(jsonData, &rawData); err != nil {
		return nil, err
	}

	match := NewMatch()
	match.extractCoreFields(rawData)
	match.extractScoreFields(rawData)
	return match, nil
}

// extractCoreFields pulls out the essential match data
func (m *Match) extractCoreFields(data map[string]any) {
	if id, ok := data["id"].(float64); ok {
		m.ID = int(id)
	}

	if utcDate, ok := data["utcDate"].(string); ok {
		if t, err := time.Parse(time.RFC3339, utcDate); err == nil {
			m.UTCTime = t
		}
	}

	if status, ok := data["status"].(string); ok {
		m.Status = status
	}

	if competition, ok := data["competition"].(map[string]any); ok {
		if compType, ok := competition["type"].(string); ok {
			m.CompetitionType = compType
		}
	}

	if home, ok := data["homeTeam"].(map[string]any); ok {
		if id, ok := home["id"].(float64); ok {
			m.HomeID = int(id)
		}
		if name, ok := home["name"].(string); ok {
			m.HomeTeamName = name
		}
	}

	if away, ok := data["awayTeam"].(map[string]any); ok {
		if id, ok := away["id"].(float64); ok {
			m.AwayID = int(id)
		}
		if name, ok := away["name"].(string); ok {
			m.AwayTeamName = name
		}
	}
}

// extractScoreFields pulls the full-time and half-time scores from the
// nested score object. Either section may be absent or partially null.
func (m *Match) extractScoreFields(data map[string]any) {
	score, ok := data["score"].(map[string]any)
	if !ok {
		return
	}

	if fullTime, ok := score["fullTime"].(map[string]any); ok {
		if home, ok := fullTime["home"].(float64); ok {
			m.ActualHomeGoals = int(home)
		}
		if away, ok := fullTime["away"].(float64); ok {
			m.ActualAwayGoals = int(away)
		}
	}

	if halfTime, ok := score["halfTime"].(map[string]any); ok {
		if home, ok := halfTime["home"].(float64); ok {
			m.ActualHalfTimeHomeGoals = int(home)
		}
		if away, ok := halfTime["away"].(float64); ok {
			m.ActualHalfTimeAwayGoals = int(away)
		}
	}
}
