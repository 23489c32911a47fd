// Package lint provides the check-execution and position-mapping engine for prose linting.
//
// # Architecture
//
// The package is organized around five pieces:
//
//  1. Check: an immutable, data-driven check descriptor tagged with a Kind
//  2. Registry: the ordered catalog of checks, fixed at construction
//  3. MatcherCache: lazily compiled matchers, memoized per engine
//  4. Config / ActiveSet: configuration resolved once into the checks to run
//  5. Engine: runs active checks, maps byte spans to codepoint positions, enforces limits
//
// The default catalog lives in pkg/lint/checks.
//
// # Defining Checks
//
// Checks are plain values. The Kind selects how the matcher is built:
//
//	var checks = []lint.Check{
//		{
//			ID:       "weasel_words.very",
//			Message:  "'Very' is a weak intensifier.",
//			Severity: core.SeverityWarning,
//			Kind:     lint.KindPattern,
//			Pattern:  "very",
//		},
//		{
//			ID:      "cliches.general",
//			Message: "Avoid clichés.",
//			Kind:    lint.KindExistence,
//			Words:   []string{"at the end of the day", "think outside the box"},
//		},
//	}
//
//	registry := lint.NewRegistry(checks)
//
// # Configuration
//
// Use Config to control which checks run and their severity:
//
//	cfg := lint.NewConfig()
//	cfg.Disable("weasel_words")            // a whole category
//	cfg.Enable("weasel_words.very")        // the longest key wins
//	cfg.DisableMeta("style")               // hard-disables every category in the group
//	cfg.SetSeverity("hedging", core.SeverityError)
//
// # Running
//
//	eng := lint.NewEngine(registry, lint.WithConfig(cfg))
//	findings, err := eng.Lint(text)
//
// Offsets in findings are codepoint offsets. Lines end at "\n", "\r\n", or a lone "\r".
// Inputs over MaxTextSize bytes, and batches over MaxBatchSize texts, are rejected
// with a *LimitError whose message contains "too large".
package lint
