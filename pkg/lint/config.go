package lint

import (
	"strings"

	"github.com/leapstack-labs/leapprose/pkg/core"
)

// Config controls which checks are enabled and their severity.
//
// Keys of Checks and SeverityOverrides are check IDs or dotted ID prefixes
// such as a category ("weasel_words") or a sub-group ("typography.symbols").
// The longest key matching an ID wins, so an exact ID beats its category.
// Meta-flags set to false disable whole categories regardless of Checks.
type Config struct {
	// Checks maps a check ID or prefix to enabled/disabled
	Checks map[string]bool

	// Meta maps a meta-flag name to enabled/disabled
	Meta map[string]bool

	// SeverityOverrides changes the default severity of checks
	SeverityOverrides map[string]core.Severity

	// CheckQuotes reports matches inside quotations; nil means true
	CheckQuotes *bool

	// MaxErrors truncates the sorted findings; 0 means unlimited
	MaxErrors int
}

// NewConfig creates a default configuration with all checks enabled.
func NewConfig() *Config {
	return &Config{
		Checks:            make(map[string]bool),
		Meta:              make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
	}
}

// Disable disables a check ID or prefix.
func (c *Config) Disable(key string) *Config {
	c.Checks[key] = false
	return c
}

// Enable enables a check ID or prefix, overriding a shorter disabled prefix.
func (c *Config) Enable(key string) *Config {
	c.Checks[key] = true
	return c
}

// DisableMeta turns off a meta-flag.
func (c *Config) DisableMeta(name string) *Config {
	c.Meta[name] = false
	return c
}

// SetSeverity overrides the severity for a check ID or prefix.
func (c *Config) SetSeverity(key string, severity core.Severity) *Config {
	c.SeverityOverrides[key] = severity
	return c
}

// SetCheckQuotes controls whether matches inside quotations are reported.
func (c *Config) SetCheckQuotes(check bool) *Config {
	c.CheckQuotes = &check
	return c
}

// SetMaxErrors limits the number of findings per text; 0 means unlimited.
func (c *Config) SetMaxErrors(n int) *Config {
	c.MaxErrors = n
	return c
}

// IsDisabled returns true if the longest key matching id disables it.
// Meta-flags are not consulted; use Resolve for the full decision.
func (c *Config) IsDisabled(id string) bool {
	if c == nil {
		return false
	}
	enabled, ok := lookupLongest(c.Checks, id)
	return ok && !enabled
}

// GetSeverity returns the severity for a check, applying any override.
func (c *Config) GetSeverity(id string, defaultSeverity core.Severity) core.Severity {
	if c == nil {
		return defaultSeverity
	}
	if sev, ok := lookupLongest(c.SeverityOverrides, id); ok {
		return sev
	}
	return defaultSeverity
}

// checkQuotes returns the effective CheckQuotes value.
func (c *Config) checkQuotes() bool {
	if c == nil || c.CheckQuotes == nil {
		return true
	}
	return *c.CheckQuotes
}

// Resolve computes the set of checks to run against registry r.
// Unknown IDs, prefixes, and meta-flags are ignored.
func (c *Config) Resolve(r *Registry) *ActiveSet {
	off := make(map[string]bool)
	if c != nil {
		for name, enabled := range c.Meta {
			if enabled {
				continue
			}
			if cats, ok := r.Meta(name); ok {
				for _, cat := range cats {
					off[cat] = true
				}
			}
		}
	}

	set := &ActiveSet{
		byID:        make(map[string]int),
		checkQuotes: c.checkQuotes(),
	}
	if c != nil && c.MaxErrors > 0 {
		set.maxErrors = c.MaxErrors
	}

	for i, chk := range r.All() {
		if off[chk.Category()] || c.IsDisabled(chk.ID) {
			continue
		}
		set.byID[chk.ID] = len(set.checks)
		set.checks = append(set.checks, activeCheck{
			check:    chk,
			order:    i,
			severity: c.GetSeverity(chk.ID, chk.Severity),
		})
	}
	return set
}

// lookupLongest finds the value of the longest key that equals id or is a
// dotted prefix of it.
func lookupLongest[V any](m map[string]V, id string) (V, bool) {
	var zero V
	if len(m) == 0 {
		return zero, false
	}
	for key := id; ; {
		if v, ok := m[key]; ok {
			return v, true
		}
		i := strings.LastIndexByte(key, '.')
		if i < 0 {
			return zero, false
		}
		key = key[:i]
	}
}

// =============================================================================
// Active Set
// =============================================================================

type activeCheck struct {
	check    *Check
	order    int // registry position
	severity core.Severity
}

// ActiveSet is the resolved, immutable list of checks for lint calls.
// It is computed once per configuration and shared by every text of a batch.
type ActiveSet struct {
	checks      []activeCheck
	byID        map[string]int
	checkQuotes bool
	maxErrors   int
}

// Len returns the number of active checks.
func (s *ActiveSet) Len() int {
	return len(s.checks)
}

// Contains reports whether a check ID is active.
func (s *ActiveSet) Contains(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// IDs returns the active check IDs in registry order.
func (s *ActiveSet) IDs() []string {
	ids := make([]string, len(s.checks))
	for i, ac := range s.checks {
		ids[i] = ac.check.ID
	}
	return ids
}

// Severity returns the effective severity of an active check.
func (s *ActiveSet) Severity(id string) (core.Severity, bool) {
	i, ok := s.byID[id]
	if !ok {
		return core.SeverityWarning, false
	}
	return s.checks[i].severity, true
}

// CheckQuotes reports whether matches inside quotations are kept.
func (s *ActiveSet) CheckQuotes() bool {
	return s.checkQuotes
}

// MaxErrors returns the findings cap; 0 means unlimited.
func (s *ActiveSet) MaxErrors() int {
	return s.maxErrors
}
