package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable override, e.g.
// BUGSCOPE_SERVER_ADDR for server.addr.
const EnvPrefix = "BUGSCOPE"

// SetDefaults registers every field of base as a viper default, so that env
// variables and bound flags only need to override what they set.
func SetDefaults(v *viper.Viper, base *Config) {
	v.SetDefault("root", base.Root)
	v.SetDefault("extension", base.Extension)
	v.SetDefault("overview_limit", base.OverviewLimit)

	v.SetDefault("server.addr", base.Server.Addr)
	v.SetDefault("server.cors_origin", base.Server.CORSOrigin)

	v.SetDefault("engine.kind", base.Engine.Kind)
	v.SetDefault("engine.read_only", base.Engine.ReadOnly)
	v.SetDefault("engine.buffer_pool_mb", base.Engine.BufferPoolMB)
	v.SetDefault("engine.max_threads", base.Engine.MaxThreads)

	v.SetDefault("log.level", base.Log.Level)
	v.SetDefault("log.format", base.Log.Format)
	v.SetDefault("log.file", base.Log.File)
	v.SetDefault("log.max_size_mb", base.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", base.Log.MaxBackups)
	v.SetDefault("log.max_age_days", base.Log.MaxAgeDays)
}

// BindEnv enables BUGSCOPE_* overrides for every key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper decodes the layered configuration held by v and validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
