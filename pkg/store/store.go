// Package store persists fetched match records in a local SQLite database
// so predictions keep working across restarts and provider outages.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/footlab/pronos/internal/logger"
	"github.com/footlab/pronos/pkg/predict"
)

const schema = `CREATE TABLE IF NOT EXISTS matches (
	id INTEGER PRIMARY KEY,
	utc_time TEXT NOT NULL,
	status TEXT NOT NULL,
	competition_type TEXT NOT NULL,
	home_id INTEGER NOT NULL,
	away_id INTEGER NOT NULL,
	home_team_name TEXT NOT NULL,
	away_team_name TEXT NOT NULL,
	home_goals INTEGER NOT NULL,
	away_goals INTEGER NOT NULL,
	half_time_home_goals INTEGER NOT NULL,
	half_time_away_goals INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_home ON matches(home_id, utc_time);
CREATE INDEX IF NOT EXISTS idx_matches_away ON matches(away_id, utc_time);`

// MatchStore wraps the SQLite handle. Safe for concurrent use; database/sql
// serializes access and the driver handles locking.
type MatchStore struct {
	db *sql.DB
}

// Open creates or opens the match database at the given path and ensures
// the schema exists
func Open(path string) (*MatchStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open match db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create match schema: %w", err)
	}
	logger.Info("Opened match store", path)
	return &MatchStore{db: db}, nil
}

func (s *MatchStore) Close() error {
	return s.db.Close()
}

// SaveMatches upserts a batch of matches in one transaction. Records keep
// their -1 sentinels in storage so a later read is indistinguishable from
// the original fetch.
func (s *MatchStore) SaveMatches(matches []*predict.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO matches
		(id, utc_time, status, competition_type, home_id, away_id,
		 home_team_name, away_team_name, home_goals, away_goals,
		 half_time_home_goals, half_time_away_goals)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		 status = excluded.status,
		 home_goals = excluded.home_goals,
		 away_goals = excluded.away_goals,
		 half_time_home_goals = excluded.half_time_home_goals,
		 half_time_away_goals = excluded.half_time_away_goals`)
	if err != nil {
		return fmt.Errorf("prepare save: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		_, err := stmt.Exec(
			m.ID, m.UTCTime.UTC().Format(time.RFC3339), m.Status, m.CompetitionType,
			m.HomeID, m.AwayID, m.HomeTeamName, m.AwayTeamName,
			m.ActualHomeGoals, m.ActualAwayGoals,
			m.ActualHalfTimeHomeGoals, m.ActualHalfTimeAwayGoals,
		)
		if err != nil {
			return fmt.Errorf("save match %d: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// TeamMatches loads every stored match a team played in since the given
// time, newest first
func (s *MatchStore) TeamMatches(teamID int, since time.Time) ([]*predict.Match, error) {
	rows, err := s.db.Query(`SELECT id, utc_time, status, competition_type,
		home_id, away_id, home_team_name, away_team_name,
		home_goals, away_goals, half_time_home_goals, half_time_away_goals
		FROM matches
		WHERE (home_id = ? OR away_id = ?) AND utc_time >= ?
		ORDER BY utc_time DESC`,
		teamID, teamID, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("load team matches: %w", err)
	}
	defer rows.Close()

	var matches []*predict.Match
	for rows.Next() {
		m := predict.NewMatch()
		var utcTime string
		err := rows.Scan(
			&m.ID, &utcTime, &m.Status, &m.CompetitionType,
			&m.HomeID, &m.AwayID, &m.HomeTeamName, &m.AwayTeamName,
			&m.ActualHomeGoals, &m.ActualAwayGoals,
			&m.ActualHalfTimeHomeGoals, &m.ActualHalfTimeAwayGoals,
		)
		if err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, utcTime); err == nil {
			m.UTCTime = t
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
