package lint

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Word characters for boundary tests: letters, marks, numbers, and
// connector punctuation such as '_'.
const (
	wordClass    = `[\pL\pM\pN\p{Pc}]`
	nonWordClass = `[^\pL\pM\pN\p{Pc}]`
)

// Matcher is the compiled, executable form of a Check.
// It is derived from the Check by compile, a pure function, so two
// matchers built from the same Check behave identically.
type Matcher struct {
	kind        Kind
	search      []*searcher // one per pattern or word; a pair holds first and second
	maxDistance int
	proc        ProcFunc
}

// compile builds the matcher for a check.
func compile(c *Check) (*Matcher, error) {
	m := &Matcher{kind: c.Kind}

	switch c.Kind {
	case KindPattern, KindRaw:
		if c.Pattern == "" {
			return nil, errors.New("empty pattern")
		}
		s, err := newSearcher(c.Pattern, c.Kind == KindPattern)
		if err != nil {
			return nil, err
		}
		m.search = []*searcher{s}
	case KindExistence:
		words := existenceWords(c.Words, c.Exceptions)
		if len(words) == 0 {
			return nil, errors.New("no words left after exceptions")
		}
		for _, w := range words {
			s, err := newSearcher(regexp.QuoteMeta(w), true)
			if err != nil {
				return nil, err
			}
			m.search = append(m.search, s)
		}
	case KindPair:
		if c.First == "" || c.Second == "" {
			return nil, errors.New("pair check needs both words")
		}
		if c.MaxDistance < 0 {
			return nil, fmt.Errorf("negative max distance %d", c.MaxDistance)
		}
		m.maxDistance = c.MaxDistance
		for _, w := range []string{c.First, c.Second} {
			s, err := newSearcher(regexp.QuoteMeta(w), true)
			if err != nil {
				return nil, err
			}
			m.search = append(m.search, s)
		}
	case KindProc:
		if c.Proc == nil {
			return nil, errors.New("procedural check has no function")
		}
		m.proc = c.Proc
	default:
		return nil, fmt.Errorf("unknown check kind %d", c.Kind)
	}
	return m, nil
}

// existenceWords drops empty words and words related to an exception.
// Each remaining word is searched on its own, so overlapping phrases are
// all reported.
func existenceWords(words, exceptions []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" || isException(w, exceptions) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isException(word string, exceptions []string) bool {
	lw := strings.ToLower(word)
	for _, e := range exceptions {
		le := strings.ToLower(e)
		if le != "" && (strings.Contains(lw, le) || strings.Contains(le, lw)) {
			return true
		}
	}
	return false
}

// searcher finds the non-overlapping, case-insensitive matches of one pattern.
//
// A bounded pattern must start and end at Unicode word boundaries. When the
// pattern always begins with a word character the boundary before it is a
// consumed non-word character (or the start of text), and the opposite when
// it always begins with another character; the end is handled the same way.
// Matches are then found one at a time, each search resuming at the last
// rune of the previous match so that rune serves as the next boundary.
type searcher struct {
	re     *regexp.Regexp
	resume *regexp.Regexp // nil when re is run with FindAll
	need   []string       // folded literals, one of which every match contains
}

func newSearcher(pattern string, bounded bool) (*searcher, error) {
	parsed, err := syntax.Parse(`(?i)(?:`+pattern+`)`, syntax.Perl)
	if err != nil {
		return nil, err
	}
	s := &searcher{need: requiredLiterals(parsed.Simplify())}

	if !bounded {
		s.re, err = regexp.Compile(`(?i)` + pattern)
		return s, err
	}

	first, firstNullable := edgeOf(parsed, false)
	last, lastNullable := edgeOf(parsed, true)
	if firstNullable || lastNullable || first.word == first.other || last.word == last.other {
		// mixed edges keep the ASCII word boundary of package regexp
		s.re, err = regexp.Compile(`(?i)\b(?:` + pattern + `)\b`)
		return s, err
	}

	lead, resume := wordClass, wordClass
	if first.word {
		lead, resume = `(?:^|`+nonWordClass+`)`, nonWordClass
	}
	trail := wordClass
	if last.word {
		trail = `(?:` + nonWordClass + `|$)`
	}
	body := `(` + pattern + `)`
	if s.re, err = regexp.Compile(`(?i)` + lead + body + trail); err != nil {
		return nil, err
	}
	if s.resume, err = regexp.Compile(`(?i)` + resume + body + trail); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *searcher) findAll(text string) []Match {
	if s.resume == nil {
		return fromIndexes(s.re.FindAllStringIndex(text, -1))
	}

	var out []Match
	re, base := s.re, 0
	for {
		loc := re.FindStringSubmatchIndex(text[base:])
		if loc == nil {
			return out
		}
		start, end := base+loc[2], base+loc[3]
		out = append(out, Match{Start: start, End: end})
		if end >= len(text) {
			return out
		}
		_, size := utf8.DecodeLastRuneInString(text[:end])
		base, re = end-size, s.resume
	}
}

// edge records whether matches can begin (or end) with a word character,
// another character, or both.
type edge struct {
	word, other bool
}

func (e edge) union(o edge) edge {
	return edge{word: e.word || o.word, other: e.other || o.other}
}

// edgeOf returns the characters a match of re can begin with, or end with
// when last is set, and whether re can match the empty string.
func edgeOf(re *syntax.Regexp, last bool) (e edge, nullable bool) {
	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Rune) == 0 {
			return edge{}, true
		}
		r := re.Rune[0]
		if last {
			r = re.Rune[len(re.Rune)-1]
		}
		return runeEdge(r), false
	case syntax.OpCharClass:
		return classEdge(re.Rune), false
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return edge{word: true, other: true}, false
	case syntax.OpCapture, syntax.OpPlus:
		return edgeOf(re.Sub[0], last)
	case syntax.OpStar, syntax.OpQuest:
		e, _ = edgeOf(re.Sub[0], last)
		return e, true
	case syntax.OpRepeat:
		e, nullable = edgeOf(re.Sub[0], last)
		return e, nullable || re.Min == 0
	case syntax.OpConcat:
		for i := range re.Sub {
			sub := re.Sub[i]
			if last {
				sub = re.Sub[len(re.Sub)-1-i]
			}
			se, sn := edgeOf(sub, last)
			e = e.union(se)
			if !sn {
				return e, false
			}
		}
		return e, true
	case syntax.OpAlternate:
		for _, sub := range re.Sub {
			se, sn := edgeOf(sub, last)
			e = e.union(se)
			nullable = nullable || sn
		}
		return e, nullable
	case syntax.OpNoMatch:
		return edge{}, false
	}
	// assertions and empty matches
	return edge{}, true
}

func runeEdge(r rune) edge {
	if isWordRune(r) {
		return edge{word: true}
	}
	return edge{other: true}
}

// classEdge classifies a character class. Wide ranges count as both.
func classEdge(ranges []rune) edge {
	var e edge
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if hi-lo > 512 {
			return edge{word: true, other: true}
		}
		for r := lo; r <= hi; r++ {
			e = e.union(runeEdge(r))
			if e.word && e.other {
				return e
			}
		}
	}
	return e
}

func isWordRune(r rune) bool {
	return unicode.In(r, unicode.L, unicode.M, unicode.N, unicode.Pc)
}

// find runs the matcher over text and returns non-empty byte ranges.
// When folded is set, patterns whose required literals are absent from it
// are not scanned. A panic inside a procedural matcher is returned as an error.
func (m *Matcher) find(text string, folded *foldedText) (matches []Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches, err = nil, fmt.Errorf("matcher panicked: %v", r)
		}
	}()

	switch m.kind {
	case KindPattern, KindRaw, KindExistence:
		var out []Match
		for _, s := range m.search {
			if folded.rulesOut(s.need) {
				continue
			}
			out = append(out, s.findAll(text)...)
		}
		return out, nil
	case KindPair:
		if folded.rulesOut(m.search[0].need) || folded.rulesOut(m.search[1].need) {
			return nil, nil
		}
		return m.findPairs(text), nil
	case KindProc:
		return validateMatches(m.proc(text), len(text))
	default:
		return nil, fmt.Errorf("unknown check kind %d", m.kind)
	}
}

func (m *Matcher) findPairs(text string) []Match {
	firsts := m.search[0].findAll(text)
	if len(firsts) == 0 {
		return nil
	}
	seconds := m.search[1].findAll(text)

	var out []Match
	for _, f := range firsts {
		k := sort.Search(len(seconds), func(i int) bool { return seconds[i].Start > f.End })
		for _, s := range seconds[k:] {
			if utf8.RuneCountInString(text[f.End:s.Start]) > m.maxDistance {
				break
			}
			out = append(out, Match{Start: f.Start, End: s.End})
		}
	}
	return out
}

func fromIndexes(locs [][]int) []Match {
	out := make([]Match, 0, len(locs))
	for _, loc := range locs {
		if loc[1] > loc[0] {
			out = append(out, Match{Start: loc[0], End: loc[1]})
		}
	}
	return out
}

func validateMatches(ms []Match, n int) ([]Match, error) {
	out := ms[:0:0]
	for _, mt := range ms {
		if mt.Start < 0 || mt.End > n || mt.Start > mt.End {
			return nil, fmt.Errorf("match [%d,%d) outside text of %d bytes", mt.Start, mt.End, n)
		}
		if mt.End > mt.Start {
			out = append(out, mt)
		}
	}
	return out, nil
}
