package genius

import (
	"context"
	"log/slog"
)

// Sentinel artist names used in lookup rows.
const (
	NameUnknown  = "Unknown"
	NameNotFound = "Not Found"
	NameError    = "Error"
)

// Columns lists the lookup table columns in display order.
var Columns = []string{"search_term", "artist_name", "artist_id", "followers_count"}

// Row is one line of a lookup table. ArtistID is nil when no artist was
// resolved. Err carries the failure message of an "Error" row.
type Row struct {
	SearchTerm     string `json:"search_term"`
	ArtistName     string `json:"artist_name"`
	ArtistID       *int64 `json:"artist_id"`
	FollowersCount int64  `json:"followers_count"`
	Err            string `json:"error,omitempty"`
}

// Found reports whether the row holds a resolved artist.
func (r Row) Found() bool {
	return r.ArtistName != NameNotFound && r.ArtistName != NameError
}

// Table holds lookup rows in the order of the terms that produced them.
type Table struct {
	Rows []Row `json:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// ResolveArtists resolves every term and returns one row per term, in order.
// Failures never stop the batch: a term that errors becomes an "Error" row.
func (c *Client) ResolveArtists(ctx context.Context, terms []string) Table {
	table := Table{Rows: make([]Row, 0, len(terms))}

	for _, term := range terms {
		artist, err := c.ResolveArtist(ctx, term)
		switch {
		case err != nil:
			c.logger.Warn("artist lookup failed",
				slog.String("term", term),
				slog.Any("error", err))
			table.Rows = append(table.Rows, Row{
				SearchTerm: term,
				ArtistName: NameError,
				Err:        err.Error(),
			})
		case artist == nil:
			table.Rows = append(table.Rows, Row{
				SearchTerm: term,
				ArtistName: NameNotFound,
			})
		default:
			table.Rows = append(table.Rows, rowFromArtist(term, artist))
		}
	}

	c.logger.Info("batch lookup completed",
		slog.Int("terms", len(terms)),
		slog.Int("found", table.countFound()))

	return table
}

func rowFromArtist(term string, a *Artist) Row {
	return Row{
		SearchTerm:     term,
		ArtistName:     a.NameOr(NameUnknown),
		ArtistID:       a.ID,
		FollowersCount: a.Followers(),
	}
}

func (t Table) countFound() int {
	n := 0
	for _, r := range t.Rows {
		if r.Found() {
			n++
		}
	}
	return n
}
