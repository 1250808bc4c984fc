// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// layers the configuration file, BUGSCOPE_* environment variables and flags
// into a config.Config and dispatches to the serve, databases, overview,
// query and shell commands.
package cli
