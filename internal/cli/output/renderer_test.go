package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/lint"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTest(mode Mode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeMarkdown, true, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _, _ := newTest(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
			assert.Equal(t, tt.isTTY, r.IsTTY())
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"", "auto", "text", "markdown", "json"} {
		_, err := ParseMode(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseMode("xml")
	assert.Error(t, err)
}

func TestRenderer_MarkdownHasNoANSI(t *testing.T) {
	r, out, _ := newTest(ModeAuto, false)

	r.Header(1, "Checks")
	r.Success("done")
	r.StatusLine("README.md", "success", "0 findings")
	r.Println(r.Styles().Error.Render("error"))

	assert.False(t, ansi.MatchString(out.String()), out.String())
	assert.Contains(t, out.String(), "# Checks")
	assert.Contains(t, out.String(), "✓ done")
	assert.Contains(t, out.String(), "- ✓ README.md 0 findings")
}

func TestRenderer_TextOnTTYIsStyled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR", "1")
	r, out, _ := newTest(ModeText, true)
	r.Println(r.Styles().Error.Render("error"))
	assert.True(t, ansi.MatchString(out.String()), "%q", out.String())
}

func TestRenderer_JSONKeepsStdoutClean(t *testing.T) {
	r, out, errOut := newTest(ModeJSON, false)

	r.Success("linted 2 files")
	require.NoError(t, r.JSON(map[string]int{"total": 2}))

	var got map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got["total"])
	assert.Contains(t, errOut.String(), "linted 2 files")
}

func TestRenderer_WarningAndError(t *testing.T) {
	r, out, errOut := newTest(ModeMarkdown, false)
	r.Warning("careful")
	r.Error("broken")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "warning: careful")
	assert.Contains(t, errOut.String(), "error: broken")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "## Summary", FormatHeader(2, "Summary"))
	assert.Equal(t, "# Top", FormatHeader(0, "Top"))
	assert.Equal(t, "- **Checks:** 12", FormatKeyValue("Checks", "12"))
	assert.Equal(t, "```yaml\na: 1\n```", FormatCode("yaml", "a: 1\n"))
	assert.Equal(t, "1 finding", Plural(1, "finding"))
	assert.Equal(t, "0 findings", Plural(0, "finding"))
}

func TestSummarize(t *testing.T) {
	results := []LintFileResult{
		{Path: "a.md", Findings: []lint.Finding{
			{Check: "x.a", Severity: core.SeverityError},
			{Check: "x.b", Severity: core.SeverityWarning},
		}},
		{Path: "b.md"},
		{Path: "c.md", Error: "too large"},
		{Path: "d.md", Findings: []lint.Finding{{Check: "x.c", Severity: core.SeveritySuggestion}}},
	}

	assert.Equal(t, LintSummary{
		FilesAnalyzed:   4,
		FilesWithIssues: 2,
		FilesFailed:     1,
		TotalIssues:     3,
		Errors:          1,
		Warnings:        1,
		Suggestions:     1,
	}, Summarize(results))
}
