// Package config defines the runtime configuration of bugscope and the
// Loader interface for reading it from a file.
//
// Values are layered: Default provides the baseline, a configuration file
// (see internal/hcl_adapter) overrides it, and command-line flags and
// BUGSCOPE_* environment variables override the file. Validate checks the
// merged result once, before anything is started.
package config
