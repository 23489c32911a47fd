package textio

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// MaskHTML blanks out markup so that only document prose is linted.
//
// Tags, comments, doctypes, and the contents of script and style elements
// are replaced rune for rune with spaces; line breaks are kept. The result
// has the same lines and codepoint columns as the input, so findings point
// at the original file.
func MaskHTML(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	z := html.NewTokenizer(strings.NewReader(text))
	consumed := 0
	hidden := 0 // depth inside script/style

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				// keep whatever the tokenizer could not consume
				b.WriteString(text[consumed:])
			}
			return b.String()
		}

		raw := string(z.Raw())
		consumed += len(raw)

		switch tt {
		case html.TextToken:
			if hidden > 0 {
				mask(&b, raw)
			} else {
				b.WriteString(raw)
			}
		case html.StartTagToken:
			if isHiddenElement(z) {
				hidden++
			}
			mask(&b, raw)
		case html.EndTagToken:
			if hidden > 0 && isHiddenElement(z) {
				hidden--
			}
			mask(&b, raw)
		default:
			mask(&b, raw)
		}
	}
}

func isHiddenElement(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}

// mask writes one space per rune of s, keeping line terminators.
func mask(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '\n', '\r':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
}
