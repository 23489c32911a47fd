package lint

import (
	"strings"

	"github.com/leapstack-labs/leapprose/pkg/core"
)

// fixtureChecks is a small catalog covering every check kind, including one
// check that cannot compile and one that panics while running.
func fixtureChecks() []Check {
	return []Check{
		{
			ID:       "weasel_words.very",
			Message:  "'Very' is weak.",
			Severity: core.SeverityWarning,
			Kind:     KindPattern,
			Pattern:  "very",
		},
		{
			ID:       "weasel_words.really",
			Message:  "'Really' is filler.",
			Severity: core.SeverityWarning,
			Kind:     KindPattern,
			Pattern:  "really",
		},
		{
			ID:       "hedging.sort_of",
			Message:  "'Sort of' is vague.",
			Severity: core.SeveritySuggestion,
			Kind:     KindPattern,
			Pattern:  "sort of",
		},
		{
			ID:          "typography.symbols.ellipsis",
			Message:     "Use the ellipsis character.",
			Severity:    core.SeveritySuggestion,
			Kind:        KindRaw,
			Pattern:     `\.\.\.`,
			Replacement: "…",
		},
		{
			ID:       "cliches.general",
			Message:  "Avoid clichés.",
			Severity: core.SeverityWarning,
			Kind:     KindExistence,
			Words:    []string{"at the end", "at the end of the day", "think outside the box"},
		},
		{
			ID:          "redundancy.reason_because",
			Message:     "'The reason ... because' is redundant.",
			Severity:    core.SeveritySuggestion,
			Kind:        KindPair,
			First:       "reason",
			Second:      "because",
			MaxDistance: 12,
		},
		{
			ID:       "lexical_illusions.the_the",
			Message:  "Repeated word 'the the'.",
			Severity: core.SeverityError,
			Kind:     KindPattern,
			Pattern:  "the the",
		},
		{
			ID:       "misc.broken",
			Message:  "Never compiles.",
			Severity: core.SeverityWarning,
			Kind:     KindRaw,
			Pattern:  `(?<!\w)"`,
		},
		{
			ID:       "misc.panics",
			Message:  "Always panics.",
			Severity: core.SeverityWarning,
			Kind:     KindProc,
			Proc: func(text string) []Match {
				if strings.Contains(text, "boom") {
					panic("boom")
				}
				return nil
			},
		},
		{
			ID:          "misc.exclaim",
			Message:     "One exclamation point is enough.",
			Severity:    core.SeverityWarning,
			Kind:        KindProc,
			AllowQuotes: true,
			Proc: func(text string) []Match {
				var out []Match
				for i := strings.Index(text, "!!"); i >= 0; {
					out = append(out, Match{Start: i, End: i + 2})
					next := strings.Index(text[i+2:], "!!")
					if next < 0 {
						break
					}
					i += 2 + next
				}
				return out
			},
		},
	}
}

func fixtureMetas() []MetaFlag {
	return []MetaFlag{
		{Name: "style", Categories: []string{"weasel_words", "hedging", "cliches"}},
	}
}

func newFixtureRegistry() *Registry {
	return NewRegistry(fixtureChecks(), fixtureMetas()...)
}

func findingIDs(findings []Finding) []string {
	ids := make([]string, len(findings))
	for i, f := range findings {
		ids[i] = f.Check
	}
	return ids
}
