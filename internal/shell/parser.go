package shell

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is one parsed input line. Name is empty for queries.
type Command struct {
	Name string
	Args []string
	Line string
}

// IsQuery reports whether the line is a query rather than a dot command.
func (c *Command) IsQuery() bool {
	return c.Name == ""
}

// Parse splits a non-empty input line into a Command. Dot commands are
// split on whitespace; anything else is kept verbatim as a query.
func Parse(line string) (*Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, fmt.Errorf("empty command")
	}
	if !strings.HasPrefix(line, ".") {
		return &Command{Line: line}, nil
	}

	parts := strings.Fields(line)
	return &Command{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
		Line: line,
	}, nil
}

// Rest returns the text after the command name, preserving inner spaces.
func (c *Command) Rest() string {
	rest := strings.TrimSpace(c.Line)
	if i := strings.IndexFunc(rest, isSpace); i >= 0 {
		return strings.TrimSpace(rest[i:])
	}
	return ""
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// ValidateArgs checks that cmd has at least count arguments.
func ValidateArgs(cmd *Command, count int) error {
	if len(cmd.Args) < count {
		return fmt.Errorf("%s expects %d argument(s), got %d", cmd.Name, count, len(cmd.Args))
	}
	return nil
}

// ParseID parses a database id argument.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid database id %q", s)
	}
	return id, nil
}
