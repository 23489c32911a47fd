package checks

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/leapprose/pkg/lint"
)

// procs maps the proc names used in data files to their matchers.
var procs = map[string]lint.ProcFunc{
	"curly_quotes": curlyQuotes,
	"attorney":     attorney,
}

// curlyQuotes flags a straight double quote that does not follow a word
// character and is not followed by whitespace, i.e. an opening quote.
func curlyQuotes(text string) []lint.Match {
	var out []lint.Match
	for i := 0; i < len(text); i++ {
		if text[i] != '"' {
			continue
		}
		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:i])
			if isWordRune(prev) {
				continue
			}
		}
		if next, _ := utf8.DecodeRuneInString(text[i+1:]); i+1 < len(text) && unicode.IsSpace(next) {
			continue
		}
		out = append(out, lint.Match{Start: i, End: i + 1})
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var (
	attorneyRe     = regexp.MustCompile(`(?i)\battorney`)
	attorneyExempt = regexp.MustCompile(`(?i)^(?:s? at law|\s+general)`)
)

// attorney flags "attorney" unless it is part of "attorney at law" or
// "attorney general".
func attorney(text string) []lint.Match {
	var out []lint.Match
	for _, loc := range attorneyRe.FindAllStringIndex(text, -1) {
		if attorneyExempt.MatchString(text[loc[1]:]) {
			continue
		}
		out = append(out, lint.Match{Start: loc[0], End: loc[1]})
	}
	return out
}
