// Package checks provides the default prose check catalog.
//
// Checks are declared as data in data/<category>.yaml and embedded in the
// binary. Only checks that regular expressions cannot express, such as the
// curly quote check that needs to look behind a match, are written in Go.
//
// The catalog is loaded once, on first use of Default:
//
//	eng := lint.NewEngine(checks.Default())
package checks

import (
	"embed"
	"fmt"
	"sync"

	"github.com/leapstack-labs/leapprose/pkg/lint"
)

//go:embed data/*.yaml
var data embed.FS

// Categories lists the default categories in registration order.
var Categories = []string{
	"typography",
	"weasel_words",
	"hedging",
	"redundancy",
	"cliches",
	"misc",
	"archaism",
	"annotations",
	"dates_times",
	"industrial_language",
	"lexical_illusions",
	"malapropisms",
	"mixed_metaphors",
	"mondegreens",
	"needless_variants",
	"nonwords",
	"oxymorons",
	"psychology",
	"restricted",
	"skunked_terms",
	"social_awareness",
	"spelling",
	"terms",
	"uncomparables",
	"preferred_forms",
}

// MetaFlags groups categories under switches that disable them together.
var MetaFlags = []lint.MetaFlag{
	{
		Name: "style",
		Categories: []string{
			"weasel_words", "hedging", "redundancy", "cliches", "industrial_language",
			"mixed_metaphors", "needless_variants", "oxymorons", "preferred_forms",
		},
	},
	{
		Name: "usage",
		Categories: []string{
			"misc", "archaism", "annotations", "dates_times", "lexical_illusions",
			"malapropisms", "mondegreens", "nonwords", "psychology", "restricted",
			"skunked_terms", "social_awareness", "spelling", "terms", "uncomparables",
		},
	},
	{
		Name:       "typography",
		Categories: []string{"typography"},
	},
}

// Default returns the registry of the embedded catalog.
// The registry is built once and shared; it is immutable.
var Default = sync.OnceValue(func() *lint.Registry {
	all, err := Load(data, Categories)
	if err != nil {
		// the embedded catalog is fixed at build time
		panic(fmt.Sprintf("checks: invalid embedded catalog: %v", err))
	}
	return lint.NewRegistry(all, MetaFlags...)
})
