// Package history records batch lookup runs so earlier tables can be shown
// again without calling the API.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sydlexius/geniuslookup/internal/genius"
)

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("lookup run not found")

// Run is one recorded batch lookup.
type Run struct {
	ID         string       `json:"id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	TermCount  int          `json:"term_count"`
	FoundCount int          `json:"found_count"`
	Table      genius.Table `json:"table"`
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
}

// New creates a Store over a migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a run and its rows in a single transaction.
func (s *Store) Record(ctx context.Context, table genius.Table, started, finished time.Time) (*Run, error) {
	run := &Run{
		ID:         uuid.New().String(),
		StartedAt:  started.UTC(),
		FinishedAt: finished.UTC(),
		TermCount:  table.Len(),
		Table:      table,
	}
	for _, r := range table.Rows {
		if r.Found() {
			run.FoundCount++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lookup_runs (id, started_at, finished_at, term_count, found_count)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt.UnixMilli(), run.FinishedAt.UnixMilli(), run.TermCount, run.FoundCount)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO lookup_rows (run_id, position, search_term, artist_name, artist_id, followers_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing row insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for i, r := range table.Rows {
		var artistID sql.NullInt64
		if r.ArtistID != nil {
			artistID = sql.NullInt64{Int64: *r.ArtistID, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, run.ID, i, r.SearchTerm, r.ArtistName, artistID, r.FollowersCount, r.Err); err != nil {
			return nil, fmt.Errorf("inserting row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing run: %w", err)
	}
	return run, nil
}

// List returns up to limit runs, newest first, without their rows.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, term_count, found_count
		FROM lookup_runs ORDER BY started_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Get returns a run with its rows in their original order.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, started_at, finished_at, term_count, found_count
		FROM lookup_runs WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT search_term, artist_name, artist_id, followers_count, error
		FROM lookup_rows WHERE run_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("loading rows for run %s: %w", id, err)
	}
	defer rows.Close() //nolint:errcheck

	run.Table.Rows = make([]genius.Row, 0, run.TermCount)
	for rows.Next() {
		var r genius.Row
		var artistID sql.NullInt64
		if err := rows.Scan(&r.SearchTerm, &r.ArtistName, &artistID, &r.FollowersCount, &r.Err); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if artistID.Valid {
			v := artistID.Int64
			r.ArtistID = &v
		}
		run.Table.Rows = append(run.Table.Rows, r)
	}
	return run, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var started, finished int64
	if err := row.Scan(&run.ID, &started, &finished, &run.TermCount, &run.FoundCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	run.StartedAt = time.UnixMilli(started).UTC()
	run.FinishedAt = time.UnixMilli(finished).UTC()
	return &run, nil
}
