package shell

import (
	"context"
	"errors"
	"fmt"

	"github.com/LadybugDB/bugscope/internal/render"
)

type commandSpec struct {
	name  string
	usage string
	help  string
}

// commands lists the dot commands in help order.
var commands = []commandSpec{
	{".help", ".help", "Show this help message"},
	{".exit", ".exit", "Exit the shell"},
	{".dbs", ".dbs", "List databases"},
	{".add", ".add <path>", "Register a database file"},
	{".use", ".use <id>", "Select the database queries run against"},
	{".ls", ".ls [path]", "Browse a directory for database files"},
	{".overview", ".overview", "Show the overview graph of the selected database"},
	{".format", ".format table|json|yaml", "Set the output format"},
}

// Execute runs one command and reports whether the session should end.
func (s *Shell) Execute(ctx context.Context, cmd *Command) (bool, error) {
	if cmd.IsQuery() {
		return false, s.query(ctx, cmd.Line)
	}

	switch cmd.Name {
	case ".help":
		s.help()
		return false, nil
	case ".exit", ".quit":
		return true, nil
	case ".dbs":
		dbs, err := s.backend.ListDatabases(ctx)
		if err != nil {
			return false, err
		}
		return false, render.Write(s.out, s.format, dbs)
	case ".add":
		path := cmd.Rest()
		if path == "" {
			return false, ValidateArgs(cmd, 1)
		}
		info, err := s.backend.RegisterDatabase(ctx, path)
		if err != nil {
			return false, err
		}
		return false, render.Write(s.out, s.format, info)
	case ".use":
		if err := ValidateArgs(cmd, 1); err != nil {
			return false, err
		}
		return false, s.use(ctx, cmd.Args[0])
	case ".ls":
		listing, err := s.backend.ListDirectory(ctx, cmd.Rest())
		if err != nil {
			return false, err
		}
		return false, render.Write(s.out, s.format, listing)
	case ".overview":
		if err := s.requireDatabase(); err != nil {
			return false, err
		}
		data, err := s.backend.OverviewGraph(ctx, s.current)
		if err != nil {
			return false, err
		}
		return false, render.Write(s.out, s.format, data)
	case ".format":
		if err := ValidateArgs(cmd, 1); err != nil {
			return false, err
		}
		f, err := render.ParseFormat(cmd.Args[0])
		if err != nil {
			return false, err
		}
		s.format = f
		fmt.Fprintf(s.out, "Output format: %s\n", f)
		return false, nil
	default:
		return false, fmt.Errorf("unknown command: %s (type .help)", cmd.Name)
	}
}

func (s *Shell) help() {
	fmt.Fprintln(s.out, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(s.out, "  %-26s %s\n", c.usage, c.help)
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Any other input runs as a query against the selected database.")
}

// use selects a database by id, checking it against the current listing.
func (s *Shell) use(ctx context.Context, arg string) error {
	id, err := ParseID(arg)
	if err != nil {
		return err
	}
	dbs, err := s.backend.ListDatabases(ctx)
	if err != nil {
		return err
	}
	if id >= len(dbs) {
		return errors.New("Database not found")
	}
	s.current, s.name = id, dbs[id].Name
	fmt.Fprintf(s.out, "Using database %d (%s)\n", id, dbs[id].Path)
	return nil
}

func (s *Shell) query(ctx context.Context, text string) error {
	if err := s.requireDatabase(); err != nil {
		return err
	}
	data, err := s.backend.RunQuery(ctx, s.current, text)
	if err != nil {
		return err
	}
	return render.Write(s.out, s.format, data)
}

func (s *Shell) requireDatabase() error {
	if s.current == noDatabase {
		return fmt.Errorf("no database selected; use .use <id>")
	}
	return nil
}
