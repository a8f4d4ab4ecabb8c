// Package output renders lookup tables for people and for other programs.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sydlexius/geniuslookup/internal/genius"
)

// Format selects how a table is rendered.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
	FormatJSON  Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatCSV, FormatTSV, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, csv, tsv or json)", s)
}

// DefaultFormat returns table for terminals and csv for pipes and files.
func DefaultFormat(isTerminal bool) Format {
	if isTerminal {
		return FormatTable
	}
	return FormatCSV
}

// Render writes t to w in the given format.
func Render(w io.Writer, t genius.Table, f Format) error {
	switch f {
	case FormatTable:
		return Grid(w, genius.Columns, records(t))
	case FormatCSV:
		return writeDelimited(w, t, ',')
	case FormatTSV:
		return writeDelimited(w, t, '\t')
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		rows := t.Rows
		if rows == nil {
			rows = []genius.Row{}
		}
		return enc.Encode(rows)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// Grid writes a bordered terminal table with the given headers.
func Grid(w io.Writer, headers []string, rows [][]string) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := fmt.Fprintln(w, tbl.String())
	return err
}

func writeDelimited(w io.Writer, t genius.Table, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	if err := cw.Write(genius.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(records(t)); err != nil {
		return err
	}
	return cw.Error()
}

// records flattens rows into cells; an absent artist ID is an empty cell.
func records(t genius.Table) [][]string {
	out := make([][]string, 0, t.Len())
	for _, r := range t.Rows {
		id := ""
		if r.ArtistID != nil {
			id = strconv.FormatInt(*r.ArtistID, 10)
		}
		out = append(out, []string{
			r.SearchTerm,
			r.ArtistName,
			id,
			strconv.FormatInt(r.FollowersCount, 10),
		})
	}
	return out
}
