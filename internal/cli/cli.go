package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/LadybugDB/bugscope/internal/config"
	"github.com/LadybugDB/bugscope/internal/ctxlog"
	"github.com/LadybugDB/bugscope/internal/hcl_adapter"
	"github.com/LadybugDB/bugscope/internal/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the reported program version.
var Version = "dev"

// configEnv names the environment variable consulted when --config is not
// given.
const configEnv = config.EnvPrefix + "_CONFIG"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"root":           "root",
	"extension":      "extension",
	"overview-limit": "overview_limit",
	"addr":           "server.addr",
	"cors-origin":    "server.cors_origin",
	"engine":         "engine.kind",
	"read-only":      "engine.read_only",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"log-file":       "log.file",
}

// rootOptions holds state shared by every command of one invocation.
type rootOptions struct {
	configPath string
	output     string

	format render.Format
	cfg    *config.Config
}

// Execute runs the command line args with output on outW and diagnostics on
// errW.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(outW)
	root.SetErr(errW)

	err := root.ExecuteContext(ctx)
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) && strings.HasPrefix(err.Error(), "unknown command") {
		return usageError("%s", err.Error())
	}
	return err
}

// NewRootCommand builds the bugscope command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "bugscope",
		Short: "Browse and query embedded graph database files",
		Long: `bugscope keeps a registry of .lbdb graph database files, runs Cypher
queries against them and projects the results into node/link graphs.

It serves the desktop frontend over socket.io (serve), answers one-shot
questions from the command line (databases, overview, query) and offers an
interactive prompt (shell).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%s", err.Error())
	})

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to an HCL configuration file (env "+configEnv+").")
	pf.StringVarP(&opts.output, "output", "o", string(render.FormatTable), "Output format: 'table', 'json' or 'yaml'.")
	pf.String("root", defaults.Root, "Directory scanned for database files.")
	pf.String("extension", defaults.Extension, "Database file extension.")
	pf.Int("overview-limit", defaults.OverviewLimit, "Maximum node and link rows fetched for an overview.")
	pf.String("addr", defaults.Server.Addr, "HTTP listen address for serve.")
	pf.String("cors-origin", defaults.Server.CORSOrigin, "Allowed socket.io browser origin.")
	pf.String("engine", defaults.Engine.Kind, "Database engine: 'kuzu' or 'memory' (demo data).")
	pf.Bool("read-only", defaults.Engine.ReadOnly, "Open databases read-only.")
	pf.String("log-level", defaults.Log.Level, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.String("log-format", defaults.Log.Format, "Log output format. Options: 'text' or 'json'.")
	pf.String("log-file", defaults.Log.File, "Also write logs to this rotating file.")

	cmd.AddCommand(
		newServeCmd(opts),
		newDatabasesCmd(opts),
		newOverviewCmd(opts),
		newQueryCmd(opts),
		newShellCmd(opts),
	)
	return cmd
}

// load resolves the configuration: defaults, then the config file, then
// BUGSCOPE_* environment variables, then explicitly set flags.
func (o *rootOptions) load(cmd *cobra.Command) error {
	format, err := render.ParseFormat(o.output)
	if err != nil {
		return usageError("%s", err.Error())
	}
	o.format = format

	base := config.Default()
	path := o.configPath
	if path == "" {
		path = os.Getenv(configEnv)
	}
	if path != "" {
		base, err = hcl_adapter.NewLoader().Load(cmd.Context(), path, base)
		if err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
	}

	v := viper.New()
	config.SetDefaults(v, base)
	config.BindEnv(v)
	flags := cmd.Flags()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	o.cfg = cfg

	ctxlog.FromContext(cmd.Context()).Debug("Configuration resolved.", "config", path, "root", cfg.Root)
	return nil
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("%s: accepts %d arg(s), received %d\nUsage: %s", cmd.Name(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}

// minimumArgs is cobra.MinimumNArgs reporting a usage error.
func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageError("%s: requires at least %d arg(s), received %d\nUsage: %s", cmd.Name(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}
