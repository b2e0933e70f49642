// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"firestige.xyz/strix/internal/log"
)

// Config is the top-level static configuration.
// Maps to the `strix:` root key in YAML.
type Config struct {
	Verbosity      int    `mapstructure:"verbosity" yaml:"verbosity"`
	Quiet          bool   `mapstructure:"quiet" yaml:"quiet"`
	ResolveNames   bool   `mapstructure:"resolve_names" yaml:"resolve_names"`
	ResolveTimeout string `mapstructure:"resolve_timeout" yaml:"resolve_timeout"`

	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Log     log.Config    `mapstructure:"log" yaml:"log"`
}

// OutputConfig selects where rendered datagram lines go.
type OutputConfig struct {
	// Path of the output file; empty means stdout.
	Path string `mapstructure:"path" yaml:"path"`
}

// CaptureConfig contains live-capture settings for the AF_PACKET source.
type CaptureConfig struct {
	Device       string `mapstructure:"device" yaml:"device"`
	SnapLen      int    `mapstructure:"snap_len" yaml:"snap_len"`
	BufferSizeMB int    `mapstructure:"buffer_size_mb" yaml:"buffer_size_mb"`
	TimeoutMs    int    `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	FanoutID     uint16 `mapstructure:"fanout_id" yaml:"fanout_id"`
	Filter       string `mapstructure:"filter" yaml:"filter"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Listen  string `mapstructure:"listen" yaml:"listen"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// configRoot is the top-level wrapper matching the YAML structure `strix: ...`.
type configRoot struct {
	Strix Config `mapstructure:"strix"`
}

// Load loads configuration from file when path is non-empty, otherwise from
// defaults and environment alone.
// The YAML file uses `strix:` as root key; env vars follow the key path
// (e.g., key "strix.log.level" → env "STRIX_LOG_LEVEL").
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Strix

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration.
// All keys use "strix." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("strix.verbosity", 0)
	v.SetDefault("strix.quiet", false)
	v.SetDefault("strix.resolve_names", false)
	v.SetDefault("strix.resolve_timeout", "2s")

	// Capture defaults; "ip proto 33" keeps the kernel from waking us for
	// anything that is not DCCP.
	v.SetDefault("strix.capture.snap_len", 2048)
	v.SetDefault("strix.capture.buffer_size_mb", 64)
	v.SetDefault("strix.capture.timeout_ms", 100)
	v.SetDefault("strix.capture.filter", "ip proto 33 or ip6 proto 33")

	// Log defaults
	v.SetDefault("strix.log.level", "info")
	v.SetDefault("strix.log.format", "text")

	// Metrics defaults
	v.SetDefault("strix.metrics.enabled", false)
	v.SetDefault("strix.metrics.listen", ":9091")
	v.SetDefault("strix.metrics.path", "/metrics")
}

// ValidateAndApplyDefaults validates configuration and applies runtime
// defaults.
func (cfg *Config) ValidateAndApplyDefaults() error {
	if cfg.Verbosity < 0 {
		return fmt.Errorf("invalid verbosity: %d", cfg.Verbosity)
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be trace/debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", cfg.Log.Format)
	}

	if _, err := time.ParseDuration(cfg.ResolveTimeout); err != nil {
		return fmt.Errorf("invalid resolve_timeout: %w", err)
	}

	if cfg.Capture.SnapLen <= 0 {
		return fmt.Errorf("capture.snap_len must be positive, got %d", cfg.Capture.SnapLen)
	}
	if cfg.Capture.BufferSizeMB <= 0 {
		return fmt.Errorf("capture.buffer_size_mb must be positive, got %d", cfg.Capture.BufferSizeMB)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Listen == "" {
		return fmt.Errorf("metrics.listen is required when metrics.enabled=true")
	}

	return nil
}

// ResolveTimeoutDuration returns the parsed resolve_timeout; call after
// validation.
func (cfg *Config) ResolveTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(cfg.ResolveTimeout)
	if err != nil {
		return 2 * time.Second
	}
	return d
}
