package storage

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables and indexes for the scan database.
// Uses a transaction for atomicity - all schema creation succeeds or
// fails together.
//
// Must be called with SQLite PRAGMA foreign_keys = ON.
func CreateSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	// Enable foreign keys (must be set for each connection)
	if _, err := tx.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create all tables in dependency order
	tables := []struct {
		name string
		ddl  string
	}{
		{"runs", createRunsTable},
		{"units", createUnitsTable},
		{"symbols", createSymbolsTable},
	}

	for _, table := range tables {
		if _, err := tx.Exec(table.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", table.name, err)
		}
	}

	for i, idx := range getAllIndexes() {
		if _, err := tx.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}

	return nil
}

// Table DDL constants

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,                     -- UUID assigned per pipeline run
    root TEXT NOT NULL,                          -- Absolute project root the run scanned
    created_at TEXT NOT NULL,                    -- ISO 8601
    unit_count INTEGER NOT NULL DEFAULT 0,       -- Units that scanned cleanly
    failure_count INTEGER NOT NULL DEFAULT 0,    -- Units the scanner rejected
    symbol_count INTEGER NOT NULL DEFAULT 0      -- Total symbols across all units
)
`

const createUnitsTable = `
CREATE TABLE IF NOT EXISTS units (
    run_id TEXT NOT NULL,
    file_path TEXT NOT NULL,                     -- Relative path from project root
    namespace TEXT NOT NULL DEFAULT '',          -- First namespace declared in the unit
    status TEXT NOT NULL,                        -- ok | failed
    error TEXT NOT NULL DEFAULT '',              -- Scanner error for failed units
    PRIMARY KEY (run_id, file_path),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

const createSymbolsTable = `
CREATE TABLE IF NOT EXISTS symbols (
    run_id TEXT NOT NULL,
    file_path TEXT NOT NULL,
    fqn TEXT NOT NULL,                           -- Rooted fully qualified name
    kind TEXT NOT NULL,                          -- class, interface, trait, enum, function, constant, defined-constant
    doc TEXT NOT NULL DEFAULT '',                -- Raw doc comment, delimiters included
    value TEXT NOT NULL DEFAULT '',              -- Alias-rewritten value expression (constants only)
    line INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
)
`

// getAllIndexes returns all index creation statements.
func getAllIndexes() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_units_run ON units(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_symbols_run ON symbols(run_id)",
		"CREATE INDEX IF NOT EXISTS idx_symbols_fqn ON symbols(fqn)",
		"CREATE INDEX IF NOT EXISTS idx_symbols_kind ON symbols(kind)",
	}
}
