package output

import (
	"fmt"
	"strings"
)

// FormatHeader formats a markdown header.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue formats a markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s:** %s", key, value)
}

// FormatCode wraps s in a fenced code block.
func FormatCode(lang, s string) string {
	return "```" + lang + "\n" + strings.TrimRight(s, "\n") + "\n```"
}

// Plural returns "1 finding" or "3 findings".
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
