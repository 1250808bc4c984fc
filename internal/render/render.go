package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LadybugDB/bugscope/internal/fsutil"
	"github.com/LadybugDB/bugscope/internal/graph"
	"github.com/LadybugDB/bugscope/internal/registry"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// ParseFormat parses a case-insensitive format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q: must be 'table', 'json' or 'yaml'", s)
	}
}

// Write renders v to w in the given format.
func Write(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable, "":
		return writeTable(w, v)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTable(w io.Writer, v any) error {
	switch v := v.(type) {
	case []registry.DatabaseInfo:
		return databases(w, v)
	case registry.DatabaseInfo:
		return databases(w, []registry.DatabaseInfo{v})
	case *fsutil.DirectoryListing:
		return directory(w, v)
	case graph.Data:
		return graphData(w, v)
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	default:
		return fmt.Errorf("no table layout for %T", v)
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func databases(w io.Writer, dbs []registry.DatabaseInfo) error {
	if len(dbs) == 0 {
		_, err := fmt.Fprintln(w, "No databases found.")
		return err
	}
	t := newTable("ID", "NAME", "PATH")
	for _, db := range dbs {
		t.Row(strconv.Itoa(db.ID), db.Name, db.RelativePath)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func directory(w io.Writer, listing *fsutil.DirectoryListing) error {
	if _, err := fmt.Fprintf(w, "%s\n", listing.Current); err != nil {
		return err
	}
	if len(listing.Directories) == 0 && len(listing.Files) == 0 {
		_, err := fmt.Fprintln(w, "(empty)")
		return err
	}
	t := newTable("TYPE", "NAME", "PATH")
	if listing.Parent != "" {
		t.Row(fsutil.EntryDirectory, "..", listing.Parent)
	}
	for _, e := range listing.Directories {
		t.Row(e.Type, e.Name+"/", e.Path)
	}
	for _, e := range listing.Files {
		t.Row(e.Type, e.Name, e.Path)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func graphData(w io.Writer, data graph.Data) error {
	if len(data.Nodes) == 0 && len(data.Links) == 0 {
		_, err := fmt.Fprintln(w, "Empty graph.")
		return err
	}
	if len(data.Nodes) > 0 {
		t := newTable("ID", "NAME", "LABEL")
		for _, n := range data.Nodes {
			t.Row(n.ID, n.Name, n.Label)
		}
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	if len(data.Links) > 0 {
		t := newTable("SOURCE", "TARGET", "LABEL")
		for _, l := range data.Links {
			t.Row(l.Source, l.Target, l.Label)
		}
		if _, err := fmt.Fprintln(w, t.Render()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d nodes, %d links\n", len(data.Nodes), len(data.Links))
	return err
}
