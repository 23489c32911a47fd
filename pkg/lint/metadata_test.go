package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDocURL(t *testing.T) {
	t.Cleanup(ResetDocsBaseURL)

	assert.Equal(t, "https://leapprose.dev/docs/checks/typography#typography-symbols-ellipsis",
		BuildDocURL("typography.symbols.ellipsis"))
	assert.Equal(t, "https://leapprose.dev/docs/checks/hedging#hedging",
		BuildDocURL("Hedging"))

	SetDocsBaseURL("http://localhost:8080/docs/")
	assert.Equal(t, "http://localhost:8080/docs/weasel_words#weasel_words-very",
		BuildDocURL("weasel_words.very"))

	ResetDocsBaseURL()
	assert.Equal(t, DefaultDocsBaseURL, DocsBaseURL)
}

func TestDocAnchor(t *testing.T) {
	assert.Equal(t, "weasel_words-very", DocAnchor("weasel_words.very"))
	assert.Equal(t, "typography-diacritics-cafe", DocAnchor("Typography.Diacritics.Cafe"))
	assert.Equal(t, "hedging", DocAnchor("hedging"))
}
