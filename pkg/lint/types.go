package lint

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapprose/pkg/core"
)

// =============================================================================
// Check Definitions
// =============================================================================

// Kind selects how a Check's matcher is built and run.
type Kind int

// Check kinds. Every kind is interpreted by the same execution loop.
const (
	// KindPattern wraps Pattern in word boundaries: (?i)\b<pattern>\b
	KindPattern Kind = iota
	// KindRaw uses Pattern as written, case-insensitive: (?i)<pattern>
	KindRaw
	// KindExistence flags any entry of Words, minus Exceptions.
	KindExistence
	// KindPair flags First followed by Second within MaxDistance codepoints.
	KindPair
	// KindProc runs a procedural matcher.
	KindProc
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPattern:
		return "pattern"
	case KindRaw:
		return "raw"
	case KindExistence:
		return "existence"
	case KindPair:
		return "pair"
	case KindProc:
		return "proc"
	default:
		return "unknown"
	}
}

// ParseKind converts a kind name to a Kind. The empty name is KindPattern.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pattern":
		return KindPattern, true
	case "raw":
		return KindRaw, true
	case "existence":
		return KindExistence, true
	case "pair":
		return KindPair, true
	case "proc":
		return KindProc, true
	default:
		return KindPattern, false
	}
}

// Match is a matched byte range [Start, End) in the linted text.
type Match struct {
	Start int
	End   int
}

// ProcFunc is a procedural matcher. It must be a pure function of text.
type ProcFunc func(text string) []Match

// Check is a data-driven check definition.
// Checks are immutable once registered; all behavior comes from the fields.
type Check struct {
	ID          string        // Stable dotted identifier, e.g., "weasel_words.very"
	Message     string        // Human-readable message attached to every finding
	Severity    core.Severity // Default severity
	Kind        Kind          // How the matcher is built
	Pattern     string        // KindPattern, KindRaw
	Words       []string      // KindExistence
	Exceptions  []string      // KindExistence: words containing or contained in an exception are skipped
	First       string        // KindPair
	Second      string        // KindPair
	MaxDistance int           // KindPair, in codepoints between the two matches
	Proc        ProcFunc      // KindProc
	AllowQuotes bool          // Keep matches inside quotes even when quotes are not checked
	Replacement string        // Optional suggested replacement
}

// Category returns the first dotted segment of the check ID.
func (c *Check) Category() string {
	return categoryOf(c.ID)
}

// Info returns the introspection DTO for the check.
func (c *Check) Info() core.CheckInfo {
	return core.CheckInfo{
		ID:              c.ID,
		Category:        c.Category(),
		Kind:            c.Kind.String(),
		Message:         c.Message,
		DefaultSeverity: c.Severity,
		Replacement:     c.Replacement,
		AllowQuotes:     c.AllowQuotes,
		DocURL:          BuildDocURL(c.ID),
	}
}

func categoryOf(id string) string {
	if i := strings.IndexByte(id, '.'); i >= 0 {
		return id[:i]
	}
	return id
}

// MetaFlag names a group of categories that can be disabled with one switch.
type MetaFlag struct {
	Name       string
	Categories []string
}

// =============================================================================
// Findings
// =============================================================================

// Finding is one located diagnostic produced by a check.
// Offsets are 0-based codepoint offsets; Line and Column are 1-based.
type Finding struct {
	Check       string        `json:"check"`
	Message     string        `json:"message"`
	Line        int           `json:"line"`
	Column      int           `json:"column"`
	Start       int           `json:"start"`
	End         int           `json:"end"`
	Severity    core.Severity `json:"severity"`
	Replacement string        `json:"replacement,omitempty"`
}

// Category returns the category of the check that produced the finding.
func (f Finding) Category() string {
	return categoryOf(f.Check)
}

// IsError reports whether the finding has error severity.
func (f Finding) IsError() bool {
	return f.Severity == core.SeverityError
}

// IsWarning reports whether the finding has warning severity.
func (f Finding) IsWarning() bool {
	return f.Severity == core.SeverityWarning
}

// IsSuggestion reports whether the finding has suggestion severity.
func (f Finding) IsSuggestion() bool {
	return f.Severity == core.SeveritySuggestion
}

// String formats the finding as "line:column: [severity] message (check)".
func (f Finding) String() string {
	return fmt.Sprintf("%d:%d: [%s] %s (%s)", f.Line, f.Column, f.Severity, f.Message, f.Check)
}

// BatchItem is the outcome of linting one text of a batch.
// Exactly one of Findings and Err is meaningful.
type BatchItem struct {
	Findings []Finding
	Err      error
}
