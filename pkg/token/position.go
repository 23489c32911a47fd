// Package token locates offsets in prose text.
//
// LineIndex maps byte offsets to 1-based line and column positions counted
// in codepoints. QuoteIndex records the spans of quoted passages so that
// matches inside them can be skipped.
package token

// Position represents a location in the linted text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number, counted in codepoints
	Offset int // 0-based codepoint offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}
