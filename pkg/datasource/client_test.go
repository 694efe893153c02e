package datasource

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/footlab/pronos/pkg/cache"
	"github.com/footlab/pronos/pkg/config"
	"github.com/footlab/pronos/pkg/predict"
	"github.com/footlab/pronos/pkg/store"
)

func matchPayload(id, homeID, awayID int, daysAgo int, compType string) string {
	date := time.Now().UTC().AddDate(0, 0, -daysAgo).Format(time.RFC3339)
	return fmt.Sprintf(`{
		"id": %d, "utcDate": %q, "status": "FINISHED",
		"competition": {"type": %q},
		"homeTeam": {"id": %d, "name": "Home"},
		"awayTeam": {"id": %d, "name": "Away"},
		"score": {"fullTime": {"home": 2, "away": 1}, "halfTime": {"home": 1, "away": 0}}
	}`, id, date, compType, homeID, awayID)
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.API.BaseURL = baseURL
	cfg.API.Token = "test-token"
	return cfg
}

func TestTeamMatchesFetchesAndFilters(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Auth-Token")
		fmt.Fprintf(w, `{"matches": [%s, %s, %s]}`,
			matchPayload(1, 10, 20, 5, "LEAGUE"),
			matchPayload(2, 10, 30, 10, "CUP"),
			matchPayload(3, 10, 40, 15, "FRIENDLY"))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil, nil)
	matches, err := c.TeamMatches(10)
	require.NoError(t, err)

	assert.Equal(t, "test-token", gotToken)
	// the friendly is filtered out, league and cup survive newest first
	require.Len(t, matches, 2)
	assert.Equal(t, 1, matches[0].ID)
	assert.Equal(t, 2, matches[1].ID)
}

func TestTeamMatchesHonoursPerTeamLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := ""
		for i := 1; i <= 30; i++ {
			if payload != "" {
				payload += ","
			}
			payload += matchPayload(i, 10, 100+i, i, "LEAGUE")
		}
		fmt.Fprintf(w, `{"matches": [%s]}`, payload)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	c := New(cfg, nil, nil)
	matches, err := c.TeamMatches(10)
	require.NoError(t, err)
	assert.Len(t, matches, cfg.Data.PerTeamLimit)
}

func TestTeamMatchesUsesCache(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"matches": [%s]}`, matchPayload(1, 10, 20, 5, "LEAGUE"))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), cache.NewTTLCache(), nil)
	_, err := c.TeamMatches(10)
	require.NoError(t, err)
	_, err = c.TeamMatches(10)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestTeamMatchesFallsBackToStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()

	stored := predict.NewMatch()
	stored.ID = 1
	stored.UTCTime = time.Now().UTC().AddDate(0, 0, -5)
	stored.Status = "FINISHED"
	stored.CompetitionType = predict.CompetitionLeague
	stored.HomeID = 10
	stored.AwayID = 20
	stored.ActualHomeGoals = 1
	stored.ActualAwayGoals = 0
	stored.ActualHalfTimeHomeGoals = 0
	stored.ActualHalfTimeAwayGoals = 0
	require.NoError(t, s.SaveMatches([]*predict.Match{stored}))

	c := New(testConfig(srv.URL), nil, s)
	matches, err := c.TeamMatches(10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].ID)
}

// brokenCache always fails its reads, standing in for an external cache
// backend that is down
type brokenCache struct{}

func (brokenCache) GetBytes(string) ([]byte, bool, error) {
	return nil, false, fmt.Errorf("cache backend down")
}

func (brokenCache) SetBytes(string, []byte, time.Duration) error { return nil }

func TestTeamMatchesSurvivesCacheFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"matches": [%s]}`, matchPayload(1, 10, 20, 5, "LEAGUE"))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), brokenCache{}, nil)
	matches, err := c.TeamMatches(10)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestTeamMatchesRejectsBadID(t *testing.T) {
	c := New(testConfig("http://unused"), nil, nil)
	_, err := c.TeamMatches(0)
	assert.Error(t, err)
}

func TestRelevantMatchesMergesBothSides(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"matches": [%s, %s]}`,
			matchPayload(100, 10, 20, 2, "LEAGUE"),
			matchPayload(1, 10, 30, 5, "LEAGUE"))
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), cache.NewTTLCache(), nil)
	matches, err := c.RelevantMatches(10, 20)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	// the head-to-head meeting leads the set
	assert.Equal(t, 100, matches[0].ID)
}

func TestTeamCrest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 57, "name": "Arsenal FC", "crest": "https://crests.example/57.png"}`)
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil, nil)
	assert.Equal(t, "https://crests.example/57.png", c.TeamCrest(57))
	assert.Equal(t, "", c.TeamCrest(0))
}

func TestParseMatchListEmptyPayload(t *testing.T) {
	matches, err := parseMatchList([]byte(`{"count": 0}`))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
