package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sydlexius/geniuslookup/internal/genius"
)

// Known reference artist used by the live check.
const (
	checkTerm = "Radiohead"
	checkName = "Radiohead"
	checkID   = 604
)

var errCheckFailed = errors.New("live check failed")

func newCheckCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the configured token against the live API",
		Long: `check resolves "Radiohead" and verifies that the artist record carries
name "Radiohead", id 604 and an integer followers_count.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd, flags, true)
			if err != nil {
				return err
			}
			defer a.Close()

			artist, err := a.client.ResolveArtist(cmd.Context(), checkTerm)
			if err != nil {
				fmt.Fprintf(a.stdout, "FAIL: %v\n", err)
				return errCheckFailed
			}
			return verifyReferenceArtist(a.stdout, artist)
		},
	}
}

// verifyReferenceArtist prints one FAIL line per problem, or a PASS summary.
func verifyReferenceArtist(w io.Writer, artist *genius.Artist) error {
	if artist == nil {
		fmt.Fprintf(w, "FAIL: no artist found for %q\n", checkTerm)
		return errCheckFailed
	}

	ok := true
	fail := func(format string, args ...any) {
		ok = false
		fmt.Fprintf(w, "FAIL: "+format+"\n", args...)
	}

	switch {
	case artist.Name == nil:
		fail("missing required field 'name'")
	case *artist.Name != checkName:
		fail("expected name %q, got %q", checkName, *artist.Name)
	}
	switch {
	case artist.ID == nil:
		fail("missing required field 'id'")
	case *artist.ID != checkID:
		fail("expected id %d, got %d", checkID, *artist.ID)
	}
	if artist.FollowersCount == nil {
		fail("missing required field 'followers_count'")
	}

	if !ok {
		return errCheckFailed
	}
	fmt.Fprintf(w, "PASS: name=%q id=%d followers=%d\n", *artist.Name, *artist.ID, *artist.FollowersCount)
	return nil
}
