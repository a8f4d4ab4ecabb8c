package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sydlexius/geniuslookup/internal/genius"
	"github.com/sydlexius/geniuslookup/internal/output"
)

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search TERM",
		Short: "Show raw search hits for a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags, true)
			if err != nil {
				return err
			}
			defer a.Close()

			hits, err := a.client.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return fmt.Errorf("searching %q: %w", args[0], err)
			}

			rows := make([][]string, 0, len(hits))
			for _, h := range hits {
				title, artistID := "", ""
				if h.Result != nil {
					title = h.Result.FullTitle
				}
				if id, ok := h.PrimaryArtistID(); ok {
					artistID = strconv.FormatInt(id, 10)
				}
				rows = append(rows, []string{h.Index, title, h.PrimaryArtistName(), artistID})
			}
			return output.Grid(a.stdout, []string{"index", "full_title", "primary_artist", "primary_artist_id"}, rows)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", genius.DefaultSearchLimit, "maximum number of hits")
	return cmd
}

func newArtistCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "artist TERM",
		Short: "Resolve a term to its primary artist and print the artist record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags, true)
			if err != nil {
				return err
			}
			defer a.Close()

			artist, err := a.client.ResolveArtist(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("resolving %q: %w", args[0], err)
			}
			if artist == nil {
				return fmt.Errorf("no artist found for %q", args[0])
			}

			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(artist)
		},
	}
}

func newLookupCmd(flags *globalFlags) *cobra.Command {
	var (
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "lookup [TERM...]",
		Short: "Resolve many terms into a table with one row per term",
		Long: `lookup resolves every term to its primary artist. Terms that match
nothing yield a "Not Found" row; terms whose lookup fails yield an "Error" row.
Terms come from the arguments and, with --file, from a file (one per line,
"-" for stdin; blank lines and lines starting with # are skipped).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			terms := append([]string(nil), args...)
			if file != "" {
				fileTerms, err := readTermsFile(cmd, file)
				if err != nil {
					return err
				}
				terms = append(terms, fileTerms...)
			}
			if len(terms) == 0 {
				return errors.New("no search terms given")
			}

			a, err := setup(cmd, flags, true)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := a.resolveFormat(format)
			if err != nil {
				return err
			}

			started := time.Now()
			table := a.client.ResolveArtists(cmd.Context(), terms)
			finished := time.Now()

			if a.history != nil {
				run, err := a.history.Record(cmd.Context(), table, started, finished)
				if err != nil {
					a.logger.Warn("recording lookup run", slog.Any("error", err))
				} else {
					a.logger.Info("recorded lookup run", slog.String("run_id", run.ID))
				}
			}

			return output.Render(a.stdout, table, f)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read terms from a file, one per line")
	cmd.Flags().StringVarP(&format, "format", "o", "", "output format: table, csv, tsv, json (default: table on a terminal, csv otherwise)")
	return cmd
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "List recorded lookup runs or show one run's table",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if a.history == nil {
				return errors.New("history is disabled: set database.path and history.enabled")
			}

			if len(args) == 1 {
				f, err := a.resolveFormat(format)
				if err != nil {
					return err
				}
				run, err := a.history.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return output.Render(a.stdout, run.Table, f)
			}

			runs, err := a.history.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.ID,
					r.StartedAt.Local().Format(time.DateTime),
					strconv.Itoa(r.TermCount),
					strconv.Itoa(r.FoundCount),
					r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String(),
				})
			}
			return output.Grid(a.stdout, []string{"run_id", "started", "terms", "found", "duration"}, rows)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")
	cmd.Flags().StringVarP(&format, "format", "o", "", "output format for a single run")
	return cmd
}

// resolveFormat parses an explicit format or picks one from the terminal state.
func (a *app) resolveFormat(s string) (output.Format, error) {
	if s == "" {
		return output.DefaultFormat(a.stdoutIsTerminal()), nil
	}
	return output.ParseFormat(s)
}

func readTermsFile(cmd *cobra.Command, path string) ([]string, error) {
	if path == "-" {
		return readTerms(cmd.InOrStdin())
	}
	f, err := os.Open(path) //nolint:gosec // G304: path is an operator-supplied flag
	if err != nil {
		return nil, fmt.Errorf("opening terms file: %w", err)
	}
	defer f.Close() //nolint:errcheck
	return readTerms(f)
}

// readTerms returns one term per non-blank line, skipping # comments.
func readTerms(r io.Reader) ([]string, error) {
	var terms []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		terms = append(terms, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading terms: %w", err)
	}
	return terms, nil
}
