package lint

import (
	"regexp/syntax"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredLiterals(t *testing.T) {
	tests := []struct {
		pattern string
		want    []string
	}{
		{pattern: `very`, want: []string{"VERY"}},
		{pattern: `\bvery\b`, want: []string{"VERY"}},
		{pattern: `sort of`, want: []string{"SORT OF"}},
		{pattern: `very|really`, want: []string{"VERY", "REALLY"}},
		{pattern: `(?:very|really) unique`, want: []string{" UNIQUE"}},
		{pattern: `[Tt]he the`, want: []string{"THE THE"}},
		{pattern: `\.\.\.`, want: []string{"..."}},
		{pattern: `colou?r`, want: []string{"COLO"}},
		{pattern: `a+bc`, want: []string{"BC"}},
		{pattern: `\w+ly`, want: []string{"LY"}},
		{pattern: `(?:^|[.!?]\s+)But `, want: []string{"BUT "}},
		{pattern: `café`, want: []string{"CAFÉ"}},
		{pattern: `\s+`, want: nil},
		{pattern: `very|\d+`, want: nil},
		{pattern: `x?`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := syntax.Parse(`(?i)(?:`+tt.pattern+`)`, syntax.Perl)
			require.NoError(t, err)
			assert.Equal(t, tt.want, requiredLiterals(re.Simplify()))
		})
	}
}

func TestFoldString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "Very good, 42!", want: "VERY GOOD, 42!"},
		{name: "latin", in: "café Ñ", want: "CAFÉ Ñ"},
		{name: "kelvin sign", in: "\u212A", want: "K"},
		{name: "long s", in: "\u017F", want: "S"},
		{name: "invalid utf-8", in: "a\xffb", want: "A\uFFFDB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, foldString(tt.in))
		})
	}
}

func TestFoldedText_RulesOut(t *testing.T) {
	f := newFoldedText("This is VERY good, \u212Aind of.")

	assert.False(t, f.rulesOut([]string{"VERY"}))
	assert.False(t, f.rulesOut([]string{"REALLY", "GOOD"}))
	assert.False(t, f.rulesOut([]string{"KIND"}), "folding matches (?i) on the Kelvin sign")
	assert.True(t, f.rulesOut([]string{"REALLY"}))
	assert.True(t, f.rulesOut([]string{"VERY BAD"}))
	assert.False(t, f.rulesOut(nil))

	var none *foldedText
	assert.False(t, none.rulesOut([]string{"VERY"}))
}

func TestEngine_PrefilterKeepsFindings(t *testing.T) {
	texts := []string{
		"The cat sat on the mat.",
		"This is VERY, Really good... sort of.",
		"At the end of the day, the the reason is because.",
		"Ñvery good. café very. Kelvin very\r\nreally\rsort of",
		"\"very\" and 'really' and “sort of”!!",
		"a\xffvery\xfe really",
		strings.Repeat("Think outside the box, very. ", 50),
		"",
	}

	filtered := newFixtureEngine(t)
	unfiltered := newFixtureEngine(t, WithoutPrefilter())

	for _, text := range texts {
		want, err := unfiltered.Lint(text)
		require.NoError(t, err)
		got, err := filtered.Lint(text)
		require.NoError(t, err)
		assert.Equal(t, want, got, "text %q", text)
	}
}

func TestMatcher_FindSkipsRuledOutSearchers(t *testing.T) {
	m, err := compile(&Check{Kind: KindExistence, Words: []string{"very", "really"}})
	require.NoError(t, err)

	// folded copies of another text show which searchers ran
	got, err := m.find("very really", newFoldedText("REALLY"))
	require.NoError(t, err)
	assert.Equal(t, []Match{{Start: 5, End: 11}}, got)

	got, err = m.find("very really", newFoldedText("nothing"))
	require.NoError(t, err)
	assert.Empty(t, got)

	pair, err := compile(&Check{Kind: KindPair, First: "reason", Second: "because", MaxDistance: 4})
	require.NoError(t, err)
	got, err = pair.find("reason is because", newFoldedText("reason is"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
