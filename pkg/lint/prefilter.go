package lint

import (
	"regexp/syntax"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Prefilter
//
// Most checks look for a word or phrase that appears in few texts. Before a
// pattern is scanned, the engine asks whether one of its required literals
// occurs in a case-folded copy of the text. Folding maps every rune to the
// smallest rune of its case-folding orbit, the same equivalence (?i) uses,
// so a text the pattern matches always contains the folded literal.

// maxClassRunes bounds the character classes read as a single folded rune.
const maxClassRunes = 8

// gramBits is the size of the trigram bitmap built for each text.
const gramBits = 1 << 18

// foldedText is the case-folded copy of one text with a bitmap of its
// byte trigrams. It is built once per lint call and never shared.
type foldedText struct {
	s     string
	grams []uint64
}

func newFoldedText(text string) *foldedText {
	f := &foldedText{s: foldString(text), grams: make([]uint64, gramBits/64)}
	for i := 0; i+3 <= len(f.s); i++ {
		h := gramHash(f.s[i], f.s[i+1], f.s[i+2])
		f.grams[h/64] |= 1 << (h % 64)
	}
	return f
}

func gramHash(a, b, c byte) uint32 {
	return (uint32(a)<<16 | uint32(b)<<8 | uint32(c)) * 2654435761 >> (32 - 18)
}

// contains reports whether the folded text contains lit, which must be folded.
func (f *foldedText) contains(lit string) bool {
	for i := 0; i+3 <= len(lit); i++ {
		h := gramHash(lit[i], lit[i+1], lit[i+2])
		if f.grams[h/64]&(1<<(h%64)) == 0 {
			return false
		}
	}
	return strings.Contains(f.s, lit)
}

// rulesOut reports whether none of need occurs in the text. A nil receiver
// or a nil need never rules anything out.
func (f *foldedText) rulesOut(need []string) bool {
	if f == nil || need == nil {
		return false
	}
	for _, lit := range need {
		if f.contains(lit) {
			return false
		}
	}
	return true
}

// foldRune maps r to the smallest rune that folds to it.
func foldRune(r rune) rune {
	if r < utf8.RuneSelf {
		if 'a' <= r && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}
	least := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < least {
			least = f
		}
	}
	return least
}

func foldString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if 'a' <= c && c <= 'z' {
				c -= 'a' - 'A'
			}
			b.WriteByte(c)
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		b.WriteRune(foldRune(r))
		i += size
	}
	return b.String()
}

func foldRunes(rs []rune) string {
	var b strings.Builder
	for _, r := range rs {
		b.WriteRune(foldRune(r))
	}
	return b.String()
}

// requiredLiterals returns folded strings, one of which occurs in every text
// re matches. It returns nil when no such set is known.
func requiredLiterals(re *syntax.Regexp) []string {
	lits := literalsOf(re)
	for _, l := range lits {
		if l == "" {
			return nil
		}
	}
	return lits
}

func literalsOf(re *syntax.Regexp) []string {
	switch re.Op {
	case syntax.OpLiteral:
		if len(re.Rune) == 0 {
			return nil
		}
		return []string{foldRunes(re.Rune)}
	case syntax.OpCharClass:
		if r, ok := classRune(re.Rune); ok {
			return []string{string(r)}
		}
	case syntax.OpCapture, syntax.OpPlus:
		return literalsOf(re.Sub[0])
	case syntax.OpRepeat:
		if re.Min >= 1 {
			return literalsOf(re.Sub[0])
		}
	case syntax.OpConcat:
		return concatLiterals(re.Sub)
	case syntax.OpAlternate:
		var out []string
		for _, sub := range re.Sub {
			lits := literalsOf(sub)
			if lits == nil {
				return nil
			}
			out = append(out, lits...)
		}
		return out
	}
	return nil
}

// concatLiterals joins adjacent literals across zero-width assertions and
// keeps the most selective requirement among the parts.
func concatLiterals(subs []*syntax.Regexp) []string {
	var (
		best []string
		run  []rune
	)
	flush := func() {
		if len(run) > 0 {
			best = moreSelective(best, []string{string(run)})
			run = run[:0]
		}
	}
	for _, sub := range subs {
		if zeroWidth(sub.Op) {
			continue
		}
		if sub.Op == syntax.OpLiteral && len(sub.Rune) > 0 {
			for _, r := range sub.Rune {
				run = append(run, foldRune(r))
			}
			continue
		}
		if sub.Op == syntax.OpCharClass {
			if r, ok := classRune(sub.Rune); ok {
				run = append(run, r)
				continue
			}
		}
		flush()
		best = moreSelective(best, literalsOf(sub))
	}
	flush()
	return best
}

// moreSelective prefers the set whose shortest literal is longer, then the
// smaller set.
func moreSelective(a, b []string) []string {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	ma, mb := shortest(a), shortest(b)
	if mb > ma || (mb == ma && len(b) < len(a)) {
		return b
	}
	return a
}

func shortest(lits []string) int {
	n := -1
	for _, l := range lits {
		if n < 0 || len(l) < n {
			n = len(l)
		}
	}
	return n
}

// classRune returns the folded rune shared by every rune of a small class.
func classRune(ranges []rune) (rune, bool) {
	var (
		folded rune = -1
		count  int
	)
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if hi-lo >= maxClassRunes {
			return 0, false
		}
		for r := lo; r <= hi; r++ {
			count++
			if count > maxClassRunes {
				return 0, false
			}
			f := foldRune(r)
			if folded >= 0 && f != folded {
				return 0, false
			}
			folded = f
		}
	}
	return folded, folded >= 0
}

func zeroWidth(op syntax.Op) bool {
	switch op {
	case syntax.OpEmptyMatch, syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpBeginText, syntax.OpEndText, syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return true
	}
	return false
}
