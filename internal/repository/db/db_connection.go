package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// one writer: the simulator loop and API commands share this handle
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", p, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

var pragmas = []string{
	"PRAGMA journal_mode = WAL;",
	"PRAGMA foreign_keys = ON;",
	"PRAGMA busy_timeout = 5000;",
}

const schemaMeterSnapshots = `
CREATE TABLE IF NOT EXISTS meter_snapshots (
    meter_id TEXT NOT NULL,
    sim_time TEXT NOT NULL,
    doc TEXT NOT NULL,
    PRIMARY KEY (meter_id, sim_time)
);
`

const schemaMeterEvents = `
CREATE TABLE IF NOT EXISTS meter_events (
    id TEXT PRIMARY KEY,
    meter_id TEXT NOT NULL,
    occurred_at TEXT NOT NULL,
    severity TEXT NOT NULL,
    category TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const indexMeterEvents = `
CREATE INDEX IF NOT EXISTS idx_meter_events_time ON meter_events (meter_id, occurred_at);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

// operator_meters scopes an operator to the meters it may command. An
// operator without rows here commands every meter.
const schemaOperatorMeters = `
CREATE TABLE IF NOT EXISTS operator_meters (
    user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    meter_id TEXT NOT NULL,
    PRIMARY KEY (user_id, meter_id)
);
`

// Schema lists every statement applied by InitDB, in order.
var Schema = []string{
	schemaMeterSnapshots,
	schemaMeterEvents,
	indexMeterEvents,
	schemaUsers,
	schemaOperatorMeters,
}

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range Schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
