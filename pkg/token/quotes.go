package token

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// quotePairs lists the opening and closing marks tracked by QuoteIndex.
var quotePairs = [...]struct{ open, close rune }{
	{'"', '"'},
	{'\'', '\''},
	{'“', '”'},
	{'‘', '’'},
}

// QuoteIndex records the byte spans of quoted passages in a text.
// Spans include their quote marks and may nest across quote styles.
type QuoteIndex struct {
	starts []int
	ends   []int
	maxEnd []int // maxEnd[i] is the largest end among spans[0..i]
}

// NewQuoteIndex finds quoted spans for each quote style.
// A straight single quote only opens a span when it does not follow a
// letter or digit, and only closes one when no letter or digit follows,
// so apostrophes inside words are not mistaken for quotes.
func NewQuoteIndex(text string) *QuoteIndex {
	type span struct{ start, end int }
	var spans []span

	for _, pair := range quotePairs {
		open := -1
		prev := rune(-1)
		for i := 0; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			next, _ := utf8.DecodeRuneInString(text[i+size:])
			switch {
			case open < 0 && r == pair.open:
				if pair.open == '\'' && isWordRune(prev) {
					break
				}
				open = i
			case open >= 0 && r == pair.close:
				if pair.close == '\'' && isWordRune(next) {
					break
				}
				spans = append(spans, span{start: open, end: i + size})
				open = -1
			}
			prev = r
			i += size
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	q := &QuoteIndex{
		starts: make([]int, len(spans)),
		ends:   make([]int, len(spans)),
		maxEnd: make([]int, len(spans)),
	}
	for i, s := range spans {
		q.starts[i] = s.start
		q.ends[i] = s.end
		q.maxEnd[i] = s.end
		if i > 0 && q.maxEnd[i-1] > s.end {
			q.maxEnd[i] = q.maxEnd[i-1]
		}
	}
	return q
}

// Len returns the number of quoted spans.
func (q *QuoteIndex) Len() int {
	return len(q.starts)
}

// Overlaps reports whether the byte range [start, end) touches any quoted span.
func (q *QuoteIndex) Overlaps(start, end int) bool {
	// spans starting before end are candidates
	k := sort.SearchInts(q.starts, end)
	return k > 0 && q.maxEnd[k-1] > start
}

// Contains reports whether the byte offset falls inside a quoted span.
func (q *QuoteIndex) Contains(offset int) bool {
	return q.Overlaps(offset, offset+1)
}

func isWordRune(r rune) bool {
	return r >= 0 && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
