package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/LadybugDB/bugscope/internal/app"
	"github.com/LadybugDB/bugscope/internal/render"
	"github.com/LadybugDB/bugscope/internal/rpcclient"
	"github.com/LadybugDB/bugscope/internal/shell"
	"github.com/spf13/cobra"
)

// withApp builds an App logging to the command's error stream, runs fn and
// closes the App.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	a, err := app.NewApp(cmd.ErrOrStderr(), o.cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a.Context(cmd.Context()), a)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, usageError("invalid database id %q: must be a non-negative integer", arg)
	}
	return id, nil
}

func newServeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the frontend over HTTP and socket.io until interrupted",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Serve(ctx)
			})
		},
	}
}

func newDatabasesCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "databases",
		Aliases: []string{"dbs"},
		Short:   "List the databases found under the root",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				return render.Write(cmd.OutOrStdout(), o.format, a.Service().ListDatabases(ctx))
			})
		},
	}
}

func newOverviewCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overview <id>",
		Short: "Print the overview graph of a database",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				data, err := a.Service().OverviewGraph(ctx, id)
				if err != nil {
					return err
				}
				return render.Write(cmd.OutOrStdout(), o.format, data)
			})
		},
	}
}

func newQueryCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <id> <cypher>...",
		Short: "Run a query against a database and print the projected graph",
		Example: `  bugscope query 0 'MATCH (a)-[r]->(b) RETURN a, r, b LIMIT 25'
  bugscope query 0 MATCH "(n:Person)" RETURN n -o json`,
		Args: minimumArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			query := strings.Join(args[1:], " ")
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				data, err := a.Service().RunQuery(ctx, id, query)
				if err != nil {
					return err
				}
				return render.Write(cmd.OutOrStdout(), o.format, data)
			})
		},
	}
}

func newShellCmd(o *rootOptions) *cobra.Command {
	var (
		server  string
		history string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive prompt",
		Long: `Start an interactive prompt. Without --server the shell runs against
the local registry; with --server it talks to a running 'bugscope serve'.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := shell.Options{Format: o.format, HistoryFile: history}
			return o.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if server == "" {
					return shell.New(shell.Local(a.Service()), cmd.OutOrStdout(), opts).Run(ctx)
				}
				client, err := rpcclient.Dial(ctx, server, timeout)
				if err != nil {
					return err
				}
				defer client.Close()
				return shell.New(client, cmd.OutOrStdout(), opts).Run(ctx)
			})
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "URL of a running server, e.g. http://127.0.0.1:7411.")
	cmd.Flags().StringVar(&history, "history", defaultHistoryFile(), "Line history file; empty disables history.")
	cmd.Flags().DurationVar(&timeout, "timeout", rpcclient.DefaultTimeout, "Connect and call timeout for --server.")
	return cmd
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bugscope_history")
}
