package db

import (
	"path/filepath"
	"testing"
)

func TestOpen_FreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	conn, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	v, err := SchemaVersion(conn)
	if err != nil {
		t.Fatal(err)
	}
	if v != CurrentVersion() {
		t.Errorf("SchemaVersion() = %d, want %d", v, CurrentVersion())
	}

	for _, table := range []string{"ledger_entries", "mission_events"} {
		var n int
		conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n)
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.Exec(`INSERT INTO ledger_entries (id, user_id, kind, created_at) VALUES ('a', 'u', 'duty', CURRENT_TIMESTAMP)`); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	var n int
	second.QueryRow("SELECT COUNT(*) FROM ledger_entries").Scan(&n)
	if n != 1 {
		t.Errorf("rows after reopen = %d, want 1", n)
	}
}

func TestRunMigrations_FromVersionOne(t *testing.T) {
	conn, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	// Simulate a database created before mission events existed.
	if _, err := conn.Exec("DROP TABLE mission_events; DELETE FROM schema_version WHERE version > 1"); err != nil {
		t.Fatal(err)
	}
	if err := RunMigrations(conn); err != nil {
		t.Fatalf("RunMigrations() error = %v", err)
	}

	var n int
	conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='mission_events'").Scan(&n)
	if n != 1 {
		t.Error("mission_events not recreated")
	}
	if v, _ := SchemaVersion(conn); v != 2 {
		t.Errorf("SchemaVersion() = %d, want 2", v)
	}
}
