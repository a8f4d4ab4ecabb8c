package database

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenMigrated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "geniuslookup.db")

	db, err := OpenMigrated(path)
	if err != nil {
		t.Fatalf("OpenMigrated: %v", err)
	}
	defer db.Close() //nolint:errcheck

	for _, table := range []string{"artist_cache", "lookup_runs", "lookup_rows"} {
		var name string
		err := db.QueryRowContext(context.Background(),
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("expected table %s: %v", table, err)
		}
	}

	// Running again is a no-op.
	if err := Migrate(db); err != nil {
		t.Errorf("second Migrate: %v", err)
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("expected error for empty path")
	}
}
