// Package datasource fetches finished match data from the football-data.org
// v4 API, layering a short-lived response cache and a persistent store
// fallback over the raw HTTP calls.
package datasource

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/footlab/pronos/internal/logger"
	"github.com/footlab/pronos/pkg/cache"
	"github.com/footlab/pronos/pkg/config"
	"github.com/footlab/pronos/pkg/predict"
	"github.com/footlab/pronos/pkg/store"
	"github.com/footlab/pronos/pkg/transport"
)

// Client is the data access front for predictions. The cache keeps repeat
// pairings from hammering the provider within its TTL; the store keeps the
// last good data available when the provider is down. Store may be nil.
type Client struct {
	cfg   *config.Config
	cache cache.BytesCache
	store *store.MatchStore
}

func New(cfg *config.Config, c cache.BytesCache, s *store.MatchStore) *Client {
	return &Client{cfg: cfg, cache: c, store: s}
}

// authHeaders returns the provider auth header set for one request
func (c *Client) authHeaders() map[string]string {
	return map[string]string{"X-Auth-Token": c.cfg.API.Token}
}

// fetch gets a provider URL through the response cache
func (c *Client) fetch(url string) ([]byte, error) {
	if c.cache != nil {
		b, ok, err := c.cache.GetBytes(url)
		if err != nil {
			logger.Debug("Cache read failed", err)
		}
		if ok {
			logger.Debug("Cache hit", url)
			return b, nil
		}
	}
	data, err := transport.Get(url, c.authHeaders())
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		c.cache.SetBytes(url, data, c.cfg.API.CacheTTL)
	}
	return data, nil
}

// TeamMatches returns the team's finished league and cup matches inside the
// configured window, newest first, capped at the per-team limit. Fresh data
// is written through to the store; when the provider cannot be reached the
// store supplies the last known data instead.
func (c *Client) TeamMatches(teamID int) ([]*predict.Match, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("must supply a valid teamID, got %d", teamID)
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -c.cfg.Data.WindowDays)
	url := fmt.Sprintf("%s/teams/%d/matches?status=FINISHED&dateFrom=%s&dateTo=%s",
		c.cfg.API.BaseURL, teamID, from.Format("2006-01-02"), now.Format("2006-01-02"))

	data, err := c.fetch(url)
	if err != nil {
		if c.store != nil {
			logger.Warn("Provider unavailable, falling back to stored matches", err)
			stored, serr := c.store.TeamMatches(teamID, from)
			if serr == nil && len(stored) > 0 {
				return limitMatches(filterRelevant(stored), c.cfg.Data.PerTeamLimit), nil
			}
		}
		return nil, fmt.Errorf("failed to fetch matches for team %d: %w", teamID, err)
	}

	matches, err := parseMatchList(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse matches for team %d: %w", teamID, err)
	}

	matches = limitMatches(filterRelevant(matches), c.cfg.Data.PerTeamLimit)

	if c.store != nil {
		if err := c.store.SaveMatches(matches); err != nil {
			logger.Warn("Failed to persist matches", err)
		}
	}
	return matches, nil
}

// RelevantMatches fetches both sides' recent matches and reduces them to
// the deduplicated prediction input set
func (c *Client) RelevantMatches(homeID, awayID int) ([]*predict.Match, error) {
	homeMatches, err := c.TeamMatches(homeID)
	if err != nil {
		return nil, err
	}
	awayMatches, err := c.TeamMatches(awayID)
	if err != nil {
		return nil, err
	}
	return predict.RelevantMatches(homeMatches, awayMatches, homeID, awayID), nil
}

// parseMatchList decodes a provider team-matches payload into Match records
func parseMatchList(data []byte) ([]*predict.Match, error) {
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	rawMatches, ok := payload["matches"].([]any)
	if !ok {
		return nil, nil
	}

	var matches []*predict.Match
	for i, raw := range rawMatches {
		matchJSON, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("error marshaling match %d to JSON: %w", i, err)
		}
		match, err := predict.ParseMatchFromJSON(matchJSON)
		if err != nil {
			return nil, fmt.Errorf("error parsing match %d: %w", i, err)
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// filterRelevant keeps league and cup matches with a reported result,
// dropping friendlies and unfinished records
func filterRelevant(matches []*predict.Match) []*predict.Match {
	filtered := make([]*predict.Match, 0, len(matches))
	for _, m := range matches {
		if m.IsRelevantCompetition() && m.HasBeenPlayed() {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// limitMatches sorts newest first and caps the list at n
func limitMatches(matches []*predict.Match, n int) []*predict.Match {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].UTCTime.After(matches[j].UTCTime)
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}
