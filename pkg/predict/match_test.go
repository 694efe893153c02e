package predict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const providerMatchJSON = `{
	"id": 497765,
	"utcDate": "2026-03-14T15:00:00Z",
	"status": "FINISHED",
	"competition": {"id": 2021, "name": "Premier League", "type": "LEAGUE"},
	"homeTeam": {"id": 57, "name": "Arsenal FC"},
	"awayTeam": {"id": 61, "name": "Chelsea FC"},
	"score": {
		"winner": "HOME_TEAM",
		"fullTime": {"home": 2, "away": 1},
		"halfTime": {"home": 1, "away": 1}
	}
}`

func TestParseMatchFromJSON(t *testing.T) {
	m, err := ParseMatchFromJSON([]byte(providerMatchJSON))
	require.NoError(t, err)

	assert.Equal(t, 497765, m.ID)
	assert.Equal(t, time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC), m.UTCTime)
	assert.Equal(t, "FINISHED", m.Status)
	assert.Equal(t, CompetitionLeague, m.CompetitionType)
	assert.Equal(t, 57, m.HomeID)
	assert.Equal(t, "Arsenal FC", m.HomeTeamName)
	assert.Equal(t, 61, m.AwayID)
	assert.Equal(t, 2, m.ActualHomeGoals)
	assert.Equal(t, 1, m.ActualAwayGoals)
	assert.Equal(t, 1, m.ActualHalfTimeHomeGoals)
	assert.Equal(t, 1, m.ActualHalfTimeAwayGoals)
	assert.True(t, m.HasBeenPlayed())
	assert.True(t, m.IsRelevantCompetition())
}

func TestParseMatchFromJSONMissingFields(t *testing.T) {
	m, err := ParseMatchFromJSON([]byte(`{"id": 1, "score": {"fullTime": {"home": null, "away": null}}}`))
	require.NoError(t, err)

	// null scores keep the sentinels, the match reads as unplayed
	assert.Equal(t, -1, m.ActualHomeGoals)
	assert.Equal(t, -1, m.ActualAwayGoals)
	assert.False(t, m.HasBeenPlayed())
	assert.False(t, m.IsRelevantCompetition())
}

func TestParseMatchFromJSONInvalid(t *testing.T) {
	_, err := ParseMatchFromJSON([]byte("not json"))
	assert.Error(t, err)
}

func TestSecondHalfGoalsNeverNegative(t *testing.T) {
	m := NewMatch()
	m.ActualHomeGoals = 1
	m.ActualAwayGoals = 0
	// inconsistent provider data reporting more half-time goals than full-time
	m.ActualHalfTimeHomeGoals = 2
	m.ActualHalfTimeAwayGoals = 0

	home, away := m.SecondHalfGoals()
	assert.Equal(t, 0, home)
	assert.Equal(t, 0, away)
}

func TestRecreateScoreStr(t *testing.T) {
	m := NewMatch()
	assert.Equal(t, "", m.RecreateScoreStr())

	m.ActualHomeGoals = 3
	m.ActualAwayGoals = 2
	assert.Equal(t, "3 - 2", m.RecreateScoreStr())
}

func TestInvolvesAndHeadToHead(t *testing.T) {
	m := playedMatch(1, 10, 20, 1, 0, 0, 0)

	assert.True(t, m.Involves(10))
	assert.True(t, m.Involves(20))
	assert.False(t, m.Involves(30))

	assert.True(t, m.IsHeadToHead(10, 20))
	assert.True(t, m.IsHeadToHead(20, 10))
	assert.False(t, m.IsHeadToHead(10, 30))
}
