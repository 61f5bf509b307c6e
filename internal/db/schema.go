package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for a fresh ledger database. It reflects
// the state after every migration has run.
//
// Tests load it through GetSchemaSQL so repository code and schema cannot
// drift apart. When adding a column or table, add a migration in
// migrations.go and update SchemaSQL here.
const SchemaSQL = `
-- Ledger (one row per payout or manual EXP change)
CREATE TABLE IF NOT EXISTS ledger_entries (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	kind TEXT NOT NULL CHECK(kind IN ('duty', 'mission', 'adjust')),
	sc INTEGER NOT NULL DEFAULT 0,
	exp INTEGER NOT NULL DEFAULT 0,
	mission_id TEXT,
	actor_id TEXT,
	note TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_user ON ledger_entries(user_id);
CREATE INDEX IF NOT EXISTS idx_ledger_entries_kind ON ledger_entries(kind);

-- Mission events (lifecycle audit trail)
CREATE TABLE IF NOT EXISTS mission_events (
	id TEXT PRIMARY KEY,
	mission_id TEXT NOT NULL,
	action TEXT NOT NULL,
	from_status TEXT,
	to_status TEXT,
	actor_id TEXT,
	detail TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mission_events_mission ON mission_events(mission_id);
`

// InitSchema creates the schema on a fresh database, or runs pending
// migrations on an existing one.
func InitSchema(conn *sql.DB) error {
	var tableCount int
	err := conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}
	if tableCount > 0 {
		return RunMigrations(conn)
	}

	// Fresh install: create the modern schema and mark every migration applied
	if _, err := conn.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := createVersionTable(conn); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := conn.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
