package cache

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sydlexius/geniuslookup/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutGetArtist(t *testing.T) {
	s := New(setupTestDB(t), time.Hour)
	ctx := context.Background()

	if _, ok, err := s.GetArtist(ctx, 604); err != nil || ok {
		t.Fatalf("expected miss on empty cache, ok=%v err=%v", ok, err)
	}

	if err := s.PutArtist(ctx, 604, []byte(`{"id":604,"name":"Radiohead"}`)); err != nil {
		t.Fatalf("PutArtist: %v", err)
	}
	raw, ok, err := s.GetArtist(ctx, 604)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if string(raw) != `{"id":604,"name":"Radiohead"}` {
		t.Errorf("unexpected payload %s", raw)
	}

	if err := s.PutArtist(ctx, 604, []byte(`{"id":604,"name":"Radiohead","followers_count":1}`)); err != nil {
		t.Fatalf("PutArtist replace: %v", err)
	}
	raw, _, _ = s.GetArtist(ctx, 604)
	if string(raw) != `{"id":604,"name":"Radiohead","followers_count":1}` {
		t.Errorf("expected replaced payload, got %s", raw)
	}
}

func TestExpiry(t *testing.T) {
	s := New(setupTestDB(t), time.Hour)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if err := s.PutArtist(ctx, 1, []byte(`{"id":1}`)); err != nil {
		t.Fatal(err)
	}
	now = now.Add(30 * time.Minute)
	if err := s.PutArtist(ctx, 2, []byte(`{"id":2}`)); err != nil {
		t.Fatal(err)
	}

	now = now.Add(45 * time.Minute)
	if _, ok, _ := s.GetArtist(ctx, 1); ok {
		t.Error("expected entry 1 expired")
	}
	if _, ok, _ := s.GetArtist(ctx, 2); !ok {
		t.Error("expected entry 2 fresh")
	}

	n, err := s.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged, got %d", n)
	}
}
