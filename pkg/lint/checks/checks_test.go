package checks_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/lint"
	"github.com/leapstack-labs/leapprose/pkg/lint/checks"
)

func TestDefault_Validates(t *testing.T) {
	r := checks.Default()

	assert.Empty(t, r.Validate(), "every catalog check must compile")
	assert.Greater(t, r.Len(), 1000)
	assert.Same(t, r, checks.Default(), "the catalog is built once")
}

func TestDefault_Categories(t *testing.T) {
	r := checks.Default()

	assert.Equal(t, checks.Categories, r.Categories())
	for _, cat := range checks.Categories {
		assert.NotEmpty(t, r.ByCategory(cat), "category %s", cat)
	}
}

func TestDefault_MetaFlags(t *testing.T) {
	r := checks.Default()

	for _, m := range checks.MetaFlags {
		cats, ok := r.Meta(m.Name)
		require.True(t, ok, m.Name)
		for _, cat := range cats {
			assert.NotEmpty(t, r.ByCategory(cat), "meta %s names unknown category %s", m.Name, cat)
		}
	}
}

func TestDefault_CleanText(t *testing.T) {
	eng := lint.NewEngine(checks.Default())

	for _, text := range []string{
		"The cat sat on the mat.",
		"",
		"She walked to the store and bought bread.",
	} {
		findings, err := eng.Lint(text)
		require.NoError(t, err)
		assert.Empty(t, findings, "text %q", text)
	}
}

func TestDefault_Findings(t *testing.T) {
	eng := lint.NewEngine(checks.Default())

	tests := []struct {
		text string
		want string
	}{
		{text: "This is very good.", want: "weasel_words.very"},
		{text: "Wait... what?", want: "typography.symbols.ellipsis"},
		{text: "This is important--really important.", want: "typography.dashes.em_dash"},
		{text: "We offer a free gift.", want: "redundancy.free_gift"},
		{text: "The reason is because it rained.", want: "redundancy.reason_because"},
		{text: "At the end of the day, we won.", want: "cliches.write_good"},
		{text: "We read the the book.", want: "lexical_illusions.the_the"},
		{text: "We need to utilize this tool.", want: "preferred_forms.usage.utilize"},
		{text: "This is a high quality product.", want: "preferred_forms.hyphenation.high_quality"},
		{text: "That is very unique.", want: "uncomparables.very_unique"},
		{text: "It is more absolute.", want: "uncomparables.more_absolute"},
		{text: "This is permissable.", want: "spelling.able_ible.permissable"},
		{text: "Meet me at the cafe.", want: "typography.diacritics.cafe"},
		{text: `He said "hi".`, want: "typography.symbols.curly_quotes"},
		{text: "Call an attorney.", want: "misc.professions.attorney"},
		{text: "Alack, the day.", want: "archaism.alack"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			findings, err := eng.Lint(tt.text)
			require.NoError(t, err)

			var ids []string
			for _, f := range findings {
				ids = append(ids, f.Check)
			}
			assert.Contains(t, ids, tt.want)
		})
	}
}

func TestDefault_Replacements(t *testing.T) {
	r := checks.Default()

	c, ok := r.Find("typography.diacritics.cafe")
	require.True(t, ok)
	assert.Equal(t, "café", c.Replacement, "replacements are NFC-normalized")

	c, ok = r.Find("typography.symbols.ellipsis")
	require.True(t, ok)
	assert.Equal(t, "…", c.Replacement)
	assert.Equal(t, core.SeveritySuggestion, c.Severity)

	c, ok = r.Find("weasel_words.very")
	require.True(t, ok)
	assert.Equal(t, core.SeverityWarning, c.Severity, "severity defaults to warning")
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"data/demo.yaml": {Data: []byte(`
checks:
  - id: demo.very
    message: 'Weak.'
    pattern: very
  - id: demo.pair
    message: 'Pair.'
    kind: pair
    first: reason
    second: because
    max_distance: 10
    severity: suggestion
  - id: demo.quotes
    message: 'Quotes.'
    kind: proc
    proc: curly_quotes
    allow_quotes: true
families:
  - id: demo.spelling
    message: "'{1}' should be '{2}'."
    replacement: '{2}'
    severity: error
    entries:
      - ['recieve', 'receive']
      - ['\bteh\b', 'the']
  - id: demo
    key: '{1}_{2}'
    pattern: '{1}\s+{2}'
    kind: raw
    message: "Remove '{1}'."
    entries:
      - ['very', 'unique']
`)},
	}

	got, err := checks.Load(fsys, []string{"demo"})
	require.NoError(t, err)

	ids := make([]string, len(got))
	for i, c := range got {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{
		"demo.very", "demo.pair", "demo.quotes",
		"demo.spelling.recieve", "demo.spelling.teh", "demo.very_unique",
	}, ids)

	assert.Equal(t, lint.KindPair, got[1].Kind)
	assert.Equal(t, 10, got[1].MaxDistance)
	assert.Equal(t, core.SeveritySuggestion, got[1].Severity)

	assert.Equal(t, lint.KindProc, got[2].Kind)
	assert.NotNil(t, got[2].Proc)
	assert.True(t, got[2].AllowQuotes)

	assert.Equal(t, "'recieve' should be 'receive'.", got[3].Message)
	assert.Equal(t, "receive", got[3].Replacement)
	assert.Equal(t, core.SeverityError, got[3].Severity)
	assert.Equal(t, `\bteh\b`, got[4].Pattern)

	assert.Equal(t, lint.KindRaw, got[5].Kind)
	assert.Equal(t, `very\s+unique`, got[5].Pattern)

	r := lint.NewRegistry(got)
	assert.Empty(t, r.Validate())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown kind",
			yaml:    "checks:\n  - id: demo.x\n    kind: fuzzy\n    pattern: x\n",
			wantErr: `unknown kind "fuzzy"`,
		},
		{
			name:    "unknown severity",
			yaml:    "checks:\n  - id: demo.x\n    severity: fatal\n    pattern: x\n",
			wantErr: `unknown severity "fatal"`,
		},
		{
			name:    "unknown proc",
			yaml:    "checks:\n  - id: demo.x\n    kind: proc\n    proc: nope\n",
			wantErr: `unknown proc "nope"`,
		},
		{
			name:    "wrong category",
			yaml:    "checks:\n  - id: other.x\n    pattern: x\n",
			wantErr: `outside category "demo"`,
		},
		{
			name:    "missing id",
			yaml:    "checks:\n  - pattern: x\n",
			wantErr: "check without id",
		},
		{
			name:    "empty family entry",
			yaml:    "families:\n  - id: demo.f\n    message: m\n    entries:\n      - []\n",
			wantErr: "entry 0 is empty",
		},
		{
			name:    "not yaml",
			yaml:    "checks: [",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"data/demo.yaml": {Data: []byte(tt.yaml)}}
			_, err := checks.Load(fsys, []string{"demo"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := checks.Load(fstest.MapFS{}, []string{"missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read data/missing.yaml")
}
