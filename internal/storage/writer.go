package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaveRun persists one pipeline run with its unit outcomes and symbols in a
// single transaction and returns the generated run ID.
func SaveRun(db *sql.DB, root string, units []UnitRecord, symbols []SymbolRecord) (string, error) {
	runID := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	failures := 0
	for _, u := range units {
		if u.Status == UnitStatusFailed {
			failures++
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`
		INSERT INTO runs (run_id, root, created_at, unit_count, failure_count, symbol_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, root, now, len(units)-failures, failures, len(symbols))
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	unitStmt, err := tx.Prepare(`
		INSERT INTO units (run_id, file_path, namespace, status, error)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare unit insert: %w", err)
	}
	defer unitStmt.Close()

	for _, u := range units {
		if _, err := unitStmt.Exec(runID, u.Path, u.Namespace, u.Status, u.Error); err != nil {
			return "", fmt.Errorf("failed to insert unit %s: %w", u.Path, err)
		}
	}

	symbolStmt, err := tx.Prepare(`
		INSERT INTO symbols (run_id, file_path, fqn, kind, doc, value, line)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare symbol insert: %w", err)
	}
	defer symbolStmt.Close()

	for _, s := range symbols {
		if _, err := symbolStmt.Exec(runID, s.UnitPath, s.FQN, s.Kind, s.Doc, s.Value, s.Line); err != nil {
			return "", fmt.Errorf("failed to insert symbol %s: %w", s.FQN, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// PruneRuns deletes all runs except the newest keep runs. Foreign keys
// cascade the unit and symbol rows.
func PruneRuns(db *sql.DB, keep int) error {
	if keep < 1 {
		keep = 1
	}
	_, err := db.Exec(`
		DELETE FROM runs WHERE run_id NOT IN (
			SELECT run_id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune runs: %w", err)
	}
	return nil
}
