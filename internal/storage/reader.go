package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// ErrNoRuns is returned when the database holds no completed runs.
var ErrNoRuns = fmt.Errorf("no runs recorded")

// LatestRun returns the most recently persisted run.
func LatestRun(db *sql.DB) (*Run, error) {
	row := db.QueryRow(`
		SELECT run_id, root, created_at, unit_count, failure_count, symbol_count
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`)

	var run Run
	var createdAt string
	err := row.Scan(&run.ID, &run.Root, &createdAt, &run.Units, &run.Failures, &run.Symbols)
	if err == sql.ErrNoRows {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}
	run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
	}
	return &run, nil
}

// RunUnits returns the unit outcomes for one run, ordered by path.
func RunUnits(db *sql.DB, runID string) ([]UnitRecord, error) {
	rows, err := db.Query(`
		SELECT file_path, namespace, status, error
		FROM units WHERE run_id = ? ORDER BY file_path`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	var units []UnitRecord
	for rows.Next() {
		var u UnitRecord
		if err := rows.Scan(&u.Path, &u.Namespace, &u.Status, &u.Error); err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// RunSymbols returns the symbols for one run, ordered by FQN.
func RunSymbols(db *sql.DB, runID string) ([]SymbolRecord, error) {
	rows, err := db.Query(`
		SELECT file_path, fqn, kind, doc, value, line
		FROM symbols WHERE run_id = ? ORDER BY fqn`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []SymbolRecord
	for rows.Next() {
		var s SymbolRecord
		if err := rows.Scan(&s.UnitPath, &s.FQN, &s.Kind, &s.Doc, &s.Value, &s.Line); err != nil {
			return nil, fmt.Errorf("failed to scan symbol row: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
