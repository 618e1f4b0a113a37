// Package storage persists scan results to SQLite so later commands
// (status, search indexing) can read them without re-scanning.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one persisted pipeline run.
type Run struct {
	ID        string
	Root      string
	CreatedAt time.Time
	Units     int
	Failures  int
	Symbols   int
}

// Unit status values.
const (
	UnitStatusOK     = "ok"
	UnitStatusFailed = "failed"
)

// UnitRecord is the persisted outcome of one source unit.
type UnitRecord struct {
	Path      string
	Namespace string
	Status    string // UnitStatusOK or UnitStatusFailed
	Error     string
}

// SymbolRecord is one persisted symbol with its alias-rewritten value.
type SymbolRecord struct {
	UnitPath string
	FQN      string
	Kind     string
	Doc      string
	Value    string
	Line     int
}

// Open opens (creating if needed) the scan database and ensures the schema
// exists.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
