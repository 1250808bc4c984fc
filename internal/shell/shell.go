package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/LadybugDB/bugscope/internal/ctxlog"
	"github.com/LadybugDB/bugscope/internal/render"
	"github.com/peterh/liner"
)

const promptBase = "bugscope"

// noDatabase marks that no database is selected.
const noDatabase = -1

// Options configures a Shell.
type Options struct {
	// Format is the initial output format.
	Format render.Format
	// HistoryFile persists line history across sessions when set.
	HistoryFile string
}

// Shell is an interactive session over a Backend.
type Shell struct {
	backend Backend
	out     io.Writer
	opts    Options

	format  render.Format
	current int
	name    string
}

// New creates a Shell writing results to out.
func New(backend Backend, out io.Writer, opts Options) *Shell {
	format := opts.Format
	if format == "" {
		format = render.FormatTable
	}
	return &Shell{
		backend: backend,
		out:     out,
		opts:    opts,
		format:  format,
		current: noDatabase,
	}
}

// Current returns the selected database id, or -1.
func (s *Shell) Current() int {
	return s.current
}

// Format returns the active output format.
func (s *Shell) Format() render.Format {
	return s.format
}

// Run reads lines from the terminal until .exit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)
	s.loadHistory(ctx, line)
	defer s.saveHistory(ctx, line)

	fmt.Fprintln(s.out, "bugscope shell. Type '.help' for commands.")
	return s.loop(ctx, func(prompt string) (string, error) {
		input, err := line.Prompt(prompt)
		if err == nil && strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		return input, err
	})
}

// loop drives the session with prompt as the line source.
func (s *Shell) loop(ctx context.Context, prompt func(string) (string, error)) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		input, err := prompt(s.prompt())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
		if strings.TrimSpace(input) == "" {
			continue
		}

		cmd, err := Parse(input)
		if err != nil {
			s.printError(err)
			continue
		}
		exit, err := s.Execute(ctx, cmd)
		if err != nil {
			s.printError(err)
		}
		if exit {
			return nil
		}
	}
}

func (s *Shell) prompt() string {
	if s.current == noDatabase {
		return promptBase + "> "
	}
	return fmt.Sprintf("%s:%s> ", promptBase, s.name)
}

func (s *Shell) printError(err error) {
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

func (s *Shell) loadHistory(ctx context.Context, line *liner.State) {
	if s.opts.HistoryFile == "" {
		return
	}
	f, err := os.Open(s.opts.HistoryFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			ctxlog.FromContext(ctx).Debug("Could not open history file.", "path", s.opts.HistoryFile, "error", err)
		}
		return
	}
	defer f.Close()
	if _, err := line.ReadHistory(f); err != nil {
		ctxlog.FromContext(ctx).Debug("Could not read history file.", "path", s.opts.HistoryFile, "error", err)
	}
}

func (s *Shell) saveHistory(ctx context.Context, line *liner.State) {
	if s.opts.HistoryFile == "" {
		return
	}
	f, err := os.Create(s.opts.HistoryFile)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Could not write history file.", "path", s.opts.HistoryFile, "error", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		ctxlog.FromContext(ctx).Warn("Could not write history file.", "path", s.opts.HistoryFile, "error", err)
	}
}

// complete offers dot command names for a line that starts with a dot.
func complete(line string) []string {
	if !strings.HasPrefix(line, ".") || strings.ContainsAny(line, " \t") {
		return nil
	}
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c.name, strings.ToLower(line)) {
			out = append(out, c.name)
		}
	}
	return out
}
