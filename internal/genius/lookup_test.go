package genius

import (
	"context"
	"testing"
)

func TestResolveArtists(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL)

	terms := []string{"Radiohead", "nothing", "server-error", "broken-hit", "minimal", "Radiohead", "trailing-bad", "null-hits"}
	table := c.ResolveArtists(context.Background(), terms)

	if table.Len() != len(terms) {
		t.Fatalf("expected %d rows, got %d", len(terms), table.Len())
	}
	for i, term := range terms {
		if table.Rows[i].SearchTerm != term {
			t.Errorf("row %d: expected term %q, got %q", i, term, table.Rows[i].SearchTerm)
		}
	}

	found := table.Rows[0]
	if found.ArtistName != "Radiohead" {
		t.Errorf("expected Radiohead, got %q", found.ArtistName)
	}
	if found.ArtistID == nil || *found.ArtistID != 604 {
		t.Errorf("expected artist id 604, got %v", found.ArtistID)
	}
	if found.FollowersCount < 0 {
		t.Errorf("expected non-negative followers, got %d", found.FollowersCount)
	}
	if found.Err != "" {
		t.Errorf("expected no error, got %q", found.Err)
	}

	notFound := table.Rows[1]
	if notFound.ArtistName != NameNotFound || notFound.ArtistID != nil || notFound.FollowersCount != 0 {
		t.Errorf("unexpected not-found row %+v", notFound)
	}

	for _, i := range []int{2, 3} {
		row := table.Rows[i]
		if row.ArtistName != NameError || row.ArtistID != nil || row.FollowersCount != 0 {
			t.Errorf("row %d: unexpected error row %+v", i, row)
		}
		if row.Err == "" {
			t.Errorf("row %d: expected diagnostic message", i)
		}
	}

	minimal := table.Rows[4]
	if minimal.ArtistName != NameUnknown || minimal.ArtistID != nil || minimal.FollowersCount != 0 {
		t.Errorf("unexpected defaults row %+v", minimal)
	}
	if !minimal.Found() {
		t.Error("expected row with defaults to count as found")
	}

	trailing := table.Rows[6]
	if trailing.ArtistName != "Radiohead" || trailing.ArtistID == nil || *trailing.ArtistID != 604 {
		t.Errorf("expected malformed trailing hits to be ignored, got %+v", trailing)
	}

	if nullHits := table.Rows[7]; nullHits.ArtistName != NameNotFound {
		t.Errorf("expected null hits to be Not Found, got %+v", nullHits)
	}
}

func TestResolveArtistsEmpty(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL)

	table := c.ResolveArtists(context.Background(), nil)
	if table.Len() != 0 {
		t.Errorf("expected 0 rows, got %d", table.Len())
	}
	if table.Rows == nil {
		t.Error("expected non-nil rows slice")
	}
}

func TestResolveArtistsCanceled(t *testing.T) {
	srv := newTestServer(t)
	c := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	terms := []string{"Radiohead", "nothing", "minimal"}
	table := c.ResolveArtists(ctx, terms)
	if table.Len() != len(terms) {
		t.Fatalf("expected %d rows, got %d", len(terms), table.Len())
	}
	for i, row := range table.Rows {
		if row.ArtistName != NameError {
			t.Errorf("row %d: expected Error, got %q", i, row.ArtistName)
		}
	}
}
