// Package cache keeps Genius artist payloads in SQLite so repeated lookups of
// the same artist skip the network while the entry is fresh.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Store is a TTL cache of raw artist objects keyed by Genius artist ID.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// New creates a Store over a migrated database. Entries older than ttl are
// treated as missing.
func New(db *sql.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl, now: time.Now}
}

// GetArtist returns the cached payload for id when it is younger than the TTL.
func (s *Store) GetArtist(ctx context.Context, id int64) ([]byte, bool, error) {
	var payload string
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM artist_cache WHERE artist_id = ?`, id,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading artist %d: %w", id, err)
	}

	if s.now().Sub(time.UnixMilli(fetchedAt)) >= s.ttl {
		return nil, false, nil
	}
	return []byte(payload), true, nil
}

// PutArtist stores or replaces the payload for id.
func (s *Store) PutArtist(ctx context.Context, id int64, raw []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artist_cache (artist_id, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT (artist_id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`, id, string(raw), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("writing artist %d: %w", id, err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.ttl).UnixMilli()
	res, err := s.db.ExecContext(ctx, `DELETE FROM artist_cache WHERE fetched_at <= ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging artist cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
