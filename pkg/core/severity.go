package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a finding.
type Severity int

// Severity levels for findings. Lower values are more severe, so a
// threshold filter keeps findings with Severity <= threshold.
const (
	// SeverityError indicates a definite mistake (typo, nonword, repeated word).
	SeverityError Severity = iota
	// SeverityWarning indicates weak or questionable usage that should be reviewed.
	SeverityWarning
	// SeveritySuggestion indicates an optional stylistic improvement.
	SeveritySuggestion
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeveritySuggestion:
		return "suggestion"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity value.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SeverityError, true
	case "warning":
		return SeverityWarning, true
	case "suggestion":
		return SeveritySuggestion, true
	default:
		return SeverityWarning, false
	}
}

// AtLeast reports whether s is as severe as other or more.
func (s Severity) AtLeast(other Severity) bool {
	return s <= other
}

// MarshalText encodes the severity as its lowercase name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("invalid severity %q: expected error, warning, or suggestion", string(text))
	}
	*s = sev
	return nil
}

// =============================================================================
// CheckInfo
// =============================================================================

// CheckInfo provides metadata about a check for documentation/tooling.
// This is a DTO (Data Transfer Object) - it carries data without behavior.
type CheckInfo struct {
	ID              string   `json:"id"`
	Category        string   `json:"category"`
	Kind            string   `json:"kind"`
	Message         string   `json:"message"`
	DefaultSeverity Severity `json:"default_severity"`
	Replacement     string   `json:"replacement,omitempty"`
	AllowQuotes     bool     `json:"allow_quotes,omitempty"`
	DocURL          string   `json:"doc_url,omitempty"`
}
