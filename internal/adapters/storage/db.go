package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the gateway database schema. The gateway persists no
// business records; the only durable state is the session slot.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS gateway_session (
		token TEXT PRIMARY KEY,
		identity_id TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL,
		backend_cookie TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// migrations are applied in order on startup. Index 0 is version 1.
var migrations = []string{
	// v1: baseline schema handled by InitDB.
	"",
	// v2: expiry sweep needs an index on created_at.
	"CREATE INDEX IF NOT EXISTS idx_gateway_session_created_at ON gateway_session(created_at)",
}

// LatestSchemaVersion returns the schema version this build expects.
func LatestSchemaVersion() int {
	return len(migrations)
}

// MigrateDB initializes the schema and applies any pending migrations.
// PRE: db is a valid database connection
// POST: schema_version equals LatestSchemaVersion()
func MigrateDB(db *sql.DB) error {
	if err := InitDB(db); err != nil {
		return err
	}

	var current int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for v := current + 1; v <= len(migrations); v++ {
		stmt := migrations[v-1]
		if stmt != "" {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("migration %d failed: %w", v, err)
			}
		}
		if _, err := db.Exec(
			"INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))", v,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", v, err)
		}
	}
	return nil
}
