// Package config provides shared configuration types for leapprose.
// This package is decoupled from CLI concerns and is used by the LSP
// and the HTTP server to load project configuration.
package config

import (
	"fmt"

	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/lint"
)

// LintConfig holds check selection and reporting options.
//
// Keys of Checks and Severity are check IDs or dotted prefixes. They may also
// be written as nested maps; ToLint joins nested keys with dots.
type LintConfig struct {
	// Checks maps an ID or prefix to enabled/disabled
	Checks map[string]any `koanf:"checks" yaml:"checks,omitempty"`

	// Meta maps a meta-flag (category) name to enabled/disabled
	Meta map[string]bool `koanf:"meta" yaml:"meta,omitempty"`

	// Severity maps an ID or prefix to error, warning, or suggestion
	Severity map[string]any `koanf:"severity" yaml:"severity,omitempty"`

	// CheckQuotes reports matches inside quotations (default true)
	CheckQuotes *bool `koanf:"check_quotes" yaml:"check_quotes,omitempty"`

	// MaxErrors truncates findings per text; 0 means unlimited
	MaxErrors int `koanf:"max_errors" yaml:"max_errors,omitempty"`
}

// LimitsConfig bounds input sizes.
type LimitsConfig struct {
	MaxTextBytes  int `koanf:"max_text_bytes" yaml:"max_text_bytes"`
	MaxBatchItems int `koanf:"max_batch_items" yaml:"max_batch_items"`
}

// ProjectConfig holds the configuration shared by every entry point.
type ProjectConfig struct {
	Lint       *LintConfig   `koanf:"lint" yaml:"lint,omitempty"`
	Limits     *LimitsConfig `koanf:"limits" yaml:"limits,omitempty"`
	Extensions []string      `koanf:"extensions" yaml:"extensions,omitempty"`
}

// ToLint converts the lint section into an engine configuration.
// A nil receiver yields the default configuration.
func (c *LintConfig) ToLint() (*lint.Config, error) {
	if c == nil {
		return lint.NewConfig(), nil
	}

	raw := map[string]any{
		"checks":     joinKeys(c.Checks),
		"meta":       c.Meta,
		"severity":   joinKeys(c.Severity),
		"max_errors": c.MaxErrors,
	}
	if c.CheckQuotes != nil {
		raw["check_quotes"] = *c.CheckQuotes
	}
	return lint.ConfigFromMap(raw)
}

// ToLimits converts the limits section. Zero fields take the engine defaults.
func (c *LimitsConfig) ToLimits() lint.Limits {
	if c == nil {
		return lint.DefaultLimits()
	}
	l := lint.Limits{MaxTextBytes: c.MaxTextBytes, MaxBatchItems: c.MaxBatchItems}
	d := lint.DefaultLimits()
	if l.MaxTextBytes <= 0 {
		l.MaxTextBytes = d.MaxTextBytes
	}
	if l.MaxBatchItems <= 0 {
		l.MaxBatchItems = d.MaxBatchItems
	}
	return l
}

// Validate checks that the configuration can build an engine.
func (c *ProjectConfig) Validate() error {
	if c == nil {
		return nil
	}
	if c.Lint != nil {
		for key, v := range joinKeys(c.Lint.Severity) {
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("lint.severity.%s: expected a string, got %T", key, v)
			}
			if _, ok := core.ParseSeverity(s); !ok {
				return fmt.Errorf("lint.severity.%s: unknown severity %q", key, s)
			}
		}
		if c.Lint.MaxErrors < 0 {
			return fmt.Errorf("lint.max_errors must be >= 0, got %d", c.Lint.MaxErrors)
		}
	}
	if c.Limits != nil {
		if c.Limits.MaxTextBytes < 0 {
			return fmt.Errorf("limits.max_text_bytes must be >= 0, got %d", c.Limits.MaxTextBytes)
		}
		if c.Limits.MaxBatchItems < 0 {
			return fmt.Errorf("limits.max_batch_items must be >= 0, got %d", c.Limits.MaxBatchItems)
		}
	}
	return nil
}

// Options returns the engine options for this configuration.
func (c *ProjectConfig) Options() ([]lint.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var (
		lc     *LintConfig
		limits *LimitsConfig
	)
	if c != nil {
		lc, limits = c.Lint, c.Limits
	}
	cfg, err := lc.ToLint()
	if err != nil {
		return nil, err
	}
	return []lint.Option{lint.WithConfig(cfg), lint.WithLimits(limits.ToLimits())}, nil
}

// joinKeys flattens nested maps into dotted keys:
// {"typography": {"symbols": false}} becomes {"typography.symbols": false}.
func joinKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if nested, ok := v.(map[string]any); ok {
				walk(key, nested)
				continue
			}
			out[key] = v
		}
	}
	walk("", m)
	return out
}
