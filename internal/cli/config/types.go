// Package config provides configuration management for the leapprose CLI.
//
// This package extends the shared configuration types from internal/config
// with CLI-specific fields. The shared types are re-exported here via type
// aliases for convenience.
package config

import (
	"time"

	sharedcfg "github.com/leapstack-labs/leapprose/internal/config"
)

// LintConfig is an alias for the shared lint configuration.
type LintConfig = sharedcfg.LintConfig

// LimitsConfig is an alias for the shared limits configuration.
type LimitsConfig = sharedcfg.LimitsConfig

// ServeConfig holds configuration for the HTTP server.
type ServeConfig struct {
	Addr            string        `koanf:"addr" yaml:"addr"`
	Watch           bool          `koanf:"watch" yaml:"watch"`
	Concurrency     int           `koanf:"concurrency" yaml:"concurrency"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DefaultServeConfig returns a ServeConfig with default values.
func DefaultServeConfig() *ServeConfig {
	return &ServeConfig{
		Addr:            DefaultAddr,
		Concurrency:     DefaultConcurrency,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// GetServeConfig returns the serve config with defaults applied for any unset values.
func (c *Config) GetServeConfig() *ServeConfig {
	if c.Serve == nil {
		return DefaultServeConfig()
	}
	s := *c.Serve
	if s.Addr == "" {
		s.Addr = DefaultAddr
	}
	if s.Concurrency <= 0 {
		s.Concurrency = DefaultConcurrency
	}
	if s.ShutdownTimeout <= 0 {
		s.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &s
}

// ReplConfig holds configuration for the interactive shell.
type ReplConfig struct {
	HistoryFile string `koanf:"history_file" yaml:"history_file"`
}

// Config holds all CLI configuration options.
type Config struct {
	Verbose      bool          `koanf:"verbose" yaml:"verbose"`
	OutputFormat string        `koanf:"output" yaml:"output"`
	Lint         *LintConfig   `koanf:"lint" yaml:"lint,omitempty"`
	Limits       *LimitsConfig `koanf:"limits" yaml:"limits,omitempty"`
	Extensions   []string      `koanf:"extensions" yaml:"extensions,omitempty"`
	Serve        *ServeConfig  `koanf:"serve" yaml:"serve,omitempty"`
	Repl         *ReplConfig   `koanf:"repl" yaml:"repl,omitempty"`

	// ProjectRoot is the directory holding the config file, or the
	// working directory when there is none.
	ProjectRoot string `koanf:"-" yaml:"-"`
}

// Project returns the shared subset of the configuration.
func (c *Config) Project() *sharedcfg.ProjectConfig {
	return &sharedcfg.ProjectConfig{
		Lint:       c.Lint,
		Limits:     c.Limits,
		Extensions: c.Extensions,
	}
}

// Default configuration values.
const (
	DefaultOutput          = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultAddr            = "127.0.0.1:8484"
	DefaultConcurrency     = 8
	DefaultShutdownTimeout = 10 * time.Second
	DefaultHistoryFile     = ".leapprose_history"
)
