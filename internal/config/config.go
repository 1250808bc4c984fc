package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/LadybugDB/bugscope/internal/engine"
)

// Engine kinds.
const (
	EngineKuzu   = "kuzu"
	EngineMemory = "memory"
)

// Loader reads a configuration file on top of a base configuration.
type Loader interface {
	Load(ctx context.Context, path string, base *Config) (*Config, error)
}

// Config is the complete runtime configuration.
type Config struct {
	// Root is the directory scanned for database files.
	Root          string `hcl:"root,optional" mapstructure:"root"`
	Extension     string `hcl:"extension,optional" mapstructure:"extension"`
	OverviewLimit int    `hcl:"overview_limit,optional" mapstructure:"overview_limit"`

	Server ServerConfig `mapstructure:"server"`
	Engine EngineConfig `mapstructure:"engine"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the HTTP and socket.io listener.
type ServerConfig struct {
	Addr string `hcl:"addr,optional" mapstructure:"addr"`
	// CORSOrigin is the allowed origin for socket.io clients.
	CORSOrigin string `hcl:"cors_origin,optional" mapstructure:"cors_origin"`
}

// EngineConfig selects and tunes the embedded engine.
type EngineConfig struct {
	Kind         string `hcl:"kind,optional" mapstructure:"kind"`
	ReadOnly     bool   `hcl:"read_only,optional" mapstructure:"read_only"`
	BufferPoolMB int    `hcl:"buffer_pool_mb,optional" mapstructure:"buffer_pool_mb"`
	MaxThreads   int    `hcl:"max_threads,optional" mapstructure:"max_threads"`
}

// LogConfig configures the process logger. File enables an additional
// rotating log file.
type LogConfig struct {
	Level      string `hcl:"level,optional" mapstructure:"level"`
	Format     string `hcl:"format,optional" mapstructure:"format"`
	File       string `hcl:"file,optional" mapstructure:"file"`
	MaxSizeMB  int    `hcl:"max_size_mb,optional" mapstructure:"max_size_mb"`
	MaxBackups int    `hcl:"max_backups,optional" mapstructure:"max_backups"`
	MaxAgeDays int    `hcl:"max_age_days,optional" mapstructure:"max_age_days"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Root:          ".",
		Extension:     ".lbdb",
		OverviewLimit: 500,
		Server: ServerConfig{
			Addr:       "127.0.0.1:7411",
			CORSOrigin: "*",
		},
		Engine: EngineConfig{
			Kind: EngineKuzu,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// EngineOptions converts the engine settings to engine.Options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		ReadOnly:       c.Engine.ReadOnly,
		BufferPoolSize: uint64(c.Engine.BufferPoolMB) * 1024 * 1024,
		MaxThreads:     uint64(c.Engine.MaxThreads),
	}
}

// Validate normalizes c in place and reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Root == "" {
		errs = append(errs, errors.New("root cannot be empty"))
	}
	c.Extension = strings.TrimSpace(c.Extension)
	if c.Extension == "" || c.Extension == "." {
		errs = append(errs, errors.New("extension cannot be empty"))
	} else if !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if c.OverviewLimit <= 0 {
		errs = append(errs, fmt.Errorf("overview_limit must be greater than zero, got %d", c.OverviewLimit))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr cannot be empty"))
	}

	c.Engine.Kind = strings.ToLower(c.Engine.Kind)
	switch c.Engine.Kind {
	case EngineKuzu, EngineMemory:
	default:
		errs = append(errs, fmt.Errorf("engine.kind must be %q or %q, got %q", EngineKuzu, EngineMemory, c.Engine.Kind))
	}
	if c.Engine.BufferPoolMB < 0 {
		errs = append(errs, errors.New("engine.buffer_pool_mb cannot be negative"))
	}
	if c.Engine.MaxThreads < 0 {
		errs = append(errs, errors.New("engine.max_threads cannot be negative"))
	}

	c.Log.Level = strings.ToLower(c.Log.Level)
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %q", c.Log.Level))
	}
	c.Log.Format = strings.ToLower(c.Log.Format)
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be 'text' or 'json', got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
