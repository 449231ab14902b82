package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// InsertRun stores a clustering run with its merge steps and groups in
// one transaction and returns the run id.
func (db *DB) InsertRun(label, criterion, source string, items int, steps []RunStep, groups []RunGroup) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var src *string
	if source != "" {
		src = &source
	}
	result, err := tx.Exec(
		`INSERT INTO runs (label, criterion, items, source) VALUES (?, ?, ?, ?)`,
		label, criterion, items, src,
	)
	if err != nil {
		return 0, err
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, s := range steps {
		members, err := json.Marshal(s.Members)
		if err != nil {
			return 0, err
		}
		if _, err := tx.Exec(
			`INSERT INTO run_steps (run_id, step, distance, size, members) VALUES (?, ?, ?, ?, ?)`,
			runID, i, s.Distance, s.Size, string(members),
		); err != nil {
			return 0, err
		}
	}

	for i, g := range groups {
		members, err := json.Marshal(g.Members)
		if err != nil {
			return 0, err
		}
		if _, err := tx.Exec(
			`INSERT INTO run_groups (run_id, idx, size, merge_distance, members) VALUES (?, ?, ?, ?, ?)`,
			runID, i, g.Size, g.MergeDistance, string(members),
		); err != nil {
			return 0, err
		}
	}

	return runID, tx.Commit()
}

// GetRuns returns all stored runs, newest first.
func (db *DB) GetRuns() ([]Run, error) {
	rows, err := db.conn.Query(
		`SELECT id, label, criterion, items, source, created_at FROM runs ORDER BY id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Label, &r.Criterion, &r.Items, &r.Source, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run, nil if it does not exist.
func (db *DB) GetRun(id int64) (*Run, error) {
	var r Run
	err := db.conn.QueryRow(
		`SELECT id, label, criterion, items, source, created_at FROM runs WHERE id = ?`, id,
	).Scan(&r.ID, &r.Label, &r.Criterion, &r.Items, &r.Source, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetSteps returns the merge steps of a run in step order.
func (db *DB) GetSteps(runID int64) ([]RunStep, error) {
	rows, err := db.conn.Query(
		`SELECT run_id, step, distance, size, members FROM run_steps WHERE run_id = ? ORDER BY step`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []RunStep
	for rows.Next() {
		var s RunStep
		var members string
		if err := rows.Scan(&s.RunID, &s.Step, &s.Distance, &s.Size, &members); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(members), &s.Members); err != nil {
			return nil, fmt.Errorf("decoding step members: %w", err)
		}
		steps = append(steps, s)
	}
	return steps, rows.Err()
}

// GetGroups returns the bottom groups of a run in group order.
func (db *DB) GetGroups(runID int64) ([]RunGroup, error) {
	rows, err := db.conn.Query(
		`SELECT run_id, idx, size, merge_distance, members FROM run_groups WHERE run_id = ? ORDER BY idx`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []RunGroup
	for rows.Next() {
		var g RunGroup
		var members string
		if err := rows.Scan(&g.RunID, &g.Index, &g.Size, &g.MergeDistance, &members); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(members), &g.Members); err != nil {
			return nil, fmt.Errorf("decoding group members: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// DeleteRun removes a run and its steps and groups.
func (db *DB) DeleteRun(id int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM run_steps WHERE run_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM run_groups WHERE run_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM runs WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// Stats summarizes the stored data for the status command.
type Stats struct {
	Runs   int
	Groups int
}

// GetStats returns row counts for the status command.
func (db *DB) GetStats() (*Stats, error) {
	var s Stats
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&s.Runs); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM run_groups`).Scan(&s.Groups); err != nil {
		return nil, err
	}
	return &s, nil
}
