package token

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf8"
)

// Errors returned by LineIndex lookups.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrNotRuneBoundary  = errors.New("offset is not on a rune boundary")
)

// checkpointStride is the byte distance between rune-count checkpoints.
const checkpointStride = 1024

// mark pairs a byte offset with the codepoint offset at the same place.
type mark struct {
	byteOff int
	runeOff int
}

// LineIndex maps offsets in a text to 1-based line and column numbers.
//
// Line terminators are "\n", "\r\n" (one terminator), and a lone "\r".
// A terminator at the very end of the text does not start a new line, and
// an empty text has no lines at all. Columns are counted in codepoints.
//
// A LineIndex is immutable after construction and safe for concurrent use.
type LineIndex struct {
	text        string
	lines       []mark // start of each line
	checkpoints []mark // every checkpointStride bytes, on rune boundaries
	runeLen     int
}

// NewLineIndex scans text once and builds its index.
func NewLineIndex(text string) *LineIndex {
	idx := &LineIndex{text: text}
	if text == "" {
		return idx
	}

	idx.lines = append(idx.lines, mark{})
	idx.checkpoints = append(idx.checkpoints, mark{})
	nextCheckpoint := checkpointStride

	runes := 0
	for i := 0; i < len(text); {
		if i >= nextCheckpoint {
			idx.checkpoints = append(idx.checkpoints, mark{byteOff: i, runeOff: runes})
			nextCheckpoint = i + checkpointStride
		}

		c := text[i]
		size := 1
		if c >= utf8.RuneSelf {
			_, size = utf8.DecodeRuneInString(text[i:])
		}
		i += size
		runes++

		switch c {
		case '\n':
			idx.startLine(i, runes)
		case '\r':
			if i < len(text) && text[i] == '\n' {
				continue // the '\n' ends this line
			}
			idx.startLine(i, runes)
		}
	}
	idx.runeLen = runes
	return idx
}

func (idx *LineIndex) startLine(byteOff, runeOff int) {
	if byteOff < len(idx.text) {
		idx.lines = append(idx.lines, mark{byteOff: byteOff, runeOff: runeOff})
	}
}

// LineCount returns the number of lines in the text.
func (idx *LineIndex) LineCount() int {
	return len(idx.lines)
}

// RuneLen returns the text length in codepoints.
func (idx *LineIndex) RuneLen() int {
	return idx.runeLen
}

// Locate returns the 1-based line and column of a codepoint offset.
// Valid offsets are 0 <= offset < RuneLen(); anything else is an error.
func (idx *LineIndex) Locate(offset int) (line, column int, err error) {
	if offset < 0 || offset >= idx.runeLen {
		return 0, 0, fmt.Errorf("%w: %d (text has %d codepoints)", ErrOffsetOutOfRange, offset, idx.runeLen)
	}
	i := sort.Search(len(idx.lines), func(i int) bool {
		return idx.lines[i].runeOff > offset
	}) - 1
	return i + 1, offset - idx.lines[i].runeOff + 1, nil
}

// RuneOffset converts a byte offset into a codepoint offset.
// Valid offsets are 0 <= offset <= len(text) and must not split a rune.
func (idx *LineIndex) RuneOffset(byteOffset int) (int, error) {
	if byteOffset < 0 || byteOffset > len(idx.text) {
		return 0, fmt.Errorf("%w: byte %d (text has %d bytes)", ErrOffsetOutOfRange, byteOffset, len(idx.text))
	}
	if byteOffset == len(idx.text) {
		return idx.runeLen, nil
	}
	if idx.splitsRune(byteOffset) {
		return 0, fmt.Errorf("%w: byte %d", ErrNotRuneBoundary, byteOffset)
	}

	i := sort.Search(len(idx.checkpoints), func(i int) bool {
		return idx.checkpoints[i].byteOff > byteOffset
	}) - 1
	cp := idx.checkpoints[i]
	return cp.runeOff + utf8.RuneCountInString(idx.text[cp.byteOff:byteOffset]), nil
}

// Position converts a byte offset into a full Position.
func (idx *LineIndex) Position(byteOffset int) (Position, error) {
	off, err := idx.RuneOffset(byteOffset)
	if err != nil {
		return Position{}, err
	}
	line, col, err := idx.Locate(off)
	if err != nil {
		return Position{}, err
	}
	return Position{Line: line, Column: col, Offset: off}, nil
}

// splitsRune reports whether b falls inside a well-formed multi-byte rune.
// Stray continuation bytes in invalid UTF-8 count as runes of their own.
func (idx *LineIndex) splitsRune(b int) bool {
	if utf8.RuneStart(idx.text[b]) {
		return false
	}
	for s := b - 1; s >= 0 && s >= b-(utf8.UTFMax-1); s-- {
		if !utf8.RuneStart(idx.text[s]) {
			continue
		}
		r, size := utf8.DecodeRuneInString(idx.text[s:])
		if r == utf8.RuneError && size == 1 {
			return false
		}
		return s+size > b
	}
	return false
}
