package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/pable/go-cricket-metrics/internal/metrics"
	"github.com/pable/go-cricket-metrics/internal/model"
)

const metaMaxYear = "dataset_max_year"

// SaveStore replaces every derived table with the given store's contents in
// one transaction.
func (db *DB) SaveStore(s *metrics.Store) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"entry_points", "chase_impacts", "bowling_matchups", "recency"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entry_points(
			player, team, match_id, year, entry_over, exit_over, phase,
			balls_faced, runs, dots, boundaries, chasing, entry_rrr, chase_target
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	for _, e := range s.Entries() {
		_, err = stmt.Exec(
			e.Player, e.Team, e.MatchID, e.Year, e.EntryOver, e.ExitOver, e.Phase.String(),
			e.BallsFaced, e.Runs, e.Dots, e.Boundaries, boolInt(e.HasChaseContext),
			e.EntryRequired, e.ChaseTarget,
		)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("insert entry_points for %s/%s: %w", e.Player, e.MatchID, err)
		}
	}
	stmt.Close()

	stmt, err = tx.Prepare(`
		INSERT INTO chase_impacts(
			player, match_id, entry_rrr, player_run_rate, personal_impact,
			required_runs, contribution_pct, impact_runs
		) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	for _, im := range s.Impacts() {
		_, err = stmt.Exec(
			im.Player, im.MatchID, im.EntryRequired, im.PlayerRunRate, im.PersonalImpact,
			im.RequiredRuns, im.ContributionPct, im.ImpactRuns,
		)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("insert chase_impacts for %s/%s: %w", im.Player, im.MatchID, err)
		}
	}
	stmt.Close()

	stmt, err = tx.Prepare(`
		INSERT INTO bowling_matchups(player, class, balls, runs, dismissals)
		VALUES (?,?,?,?,?)`)
	if err != nil {
		return err
	}
	for _, m := range s.Matchups() {
		if _, err = stmt.Exec(m.Player, m.Class.String(), m.Balls, m.Runs, m.Dismissals); err != nil {
			stmt.Close()
			return fmt.Errorf("insert bowling_matchups for %s: %w", m.Player, err)
		}
	}
	stmt.Close()

	stmt, err = tx.Prepare(`
		INSERT INTO recency(player, most_recent_year, years_since_last, status)
		VALUES (?,?,?,?)`)
	if err != nil {
		return err
	}
	for _, r := range s.RecencyRecords() {
		if _, err = stmt.Exec(r.Player, r.MostRecentYear, r.YearsSinceLast, r.Status.String()); err != nil {
			stmt.Close()
			return fmt.Errorf("insert recency for %s: %w", r.Player, err)
		}
	}
	stmt.Close()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key, value) VALUES (?, ?)`,
		metaMaxYear, strconv.Itoa(s.MaxYear())); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadStore rebuilds the in-memory store from the persisted tables. Returns
// model.ErrEmptyDataset when nothing has been ingested yet.
func (db *DB) LoadStore() (*metrics.Store, error) {
	entries, err := db.loadEntries()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, model.ErrEmptyDataset
	}

	impacts, err := db.loadImpacts()
	if err != nil {
		return nil, err
	}
	matchups, err := db.loadMatchups()
	if err != nil {
		return nil, err
	}
	recency, err := db.loadRecency()
	if err != nil {
		return nil, err
	}

	maxYear := 0
	var raw string
	err = db.conn.QueryRow("SELECT value FROM meta WHERE key = ?", metaMaxYear).Scan(&raw)
	switch {
	case err == nil:
		maxYear, _ = strconv.Atoi(raw)
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, err
	}

	return metrics.Restore(entries, impacts, matchups, recency, maxYear), nil
}

func (db *DB) loadEntries() ([]model.EntryRecord, error) {
	rows, err := db.conn.Query(`
		SELECT player, team, match_id, year, entry_over, exit_over,
		       balls_faced, runs, dots, boundaries, chasing, entry_rrr, chase_target
		FROM entry_points ORDER BY player, match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.EntryRecord
	for rows.Next() {
		var e model.EntryRecord
		var chasing int
		if err := rows.Scan(&e.Player, &e.Team, &e.MatchID, &e.Year, &e.EntryOver, &e.ExitOver,
			&e.BallsFaced, &e.Runs, &e.Dots, &e.Boundaries, &chasing,
			&e.EntryRequired, &e.ChaseTarget); err != nil {
			return nil, err
		}
		e.HasChaseContext = chasing != 0
		e.Phase = model.PhaseForOver(e.EntryOver)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (db *DB) loadImpacts() ([]model.ChaseImpact, error) {
	rows, err := db.conn.Query(`
		SELECT player, match_id, entry_rrr, player_run_rate, personal_impact,
		       required_runs, contribution_pct, impact_runs
		FROM chase_impacts ORDER BY player, match_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ChaseImpact
	for rows.Next() {
		var im model.ChaseImpact
		if err := rows.Scan(&im.Player, &im.MatchID, &im.EntryRequired, &im.PlayerRunRate,
			&im.PersonalImpact, &im.RequiredRuns, &im.ContributionPct, &im.ImpactRuns); err != nil {
			return nil, err
		}
		out = append(out, im)
	}
	return out, rows.Err()
}

func (db *DB) loadMatchups() ([]model.MatchupRecord, error) {
	rows, err := db.conn.Query(`
		SELECT player, class, balls, runs, dismissals
		FROM bowling_matchups ORDER BY player, class`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchupRecord
	for rows.Next() {
		var m model.MatchupRecord
		var class string
		if err := rows.Scan(&m.Player, &class, &m.Balls, &m.Runs, &m.Dismissals); err != nil {
			return nil, err
		}
		// class round-trips through the style classifier ("Pace"/"Spin").
		m.Class = model.ClassifyBowling(class)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (db *DB) loadRecency() ([]model.RecencyRecord, error) {
	rows, err := db.conn.Query(`
		SELECT player, most_recent_year, years_since_last FROM recency ORDER BY player`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RecencyRecord
	for rows.Next() {
		var r model.RecencyRecord
		if err := rows.Scan(&r.Player, &r.MostRecentYear, &r.YearsSinceLast); err != nil {
			return nil, err
		}
		r.Status = model.RecencyForGap(r.YearsSinceLast)
		out = append(out, r)
	}
	return out, rows.Err()
}

// HasData reports whether an ingest has been persisted.
func (db *DB) HasData() (bool, error) {
	var count int
	if err := db.conn.QueryRow("SELECT COUNT(1) FROM entry_points").Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
