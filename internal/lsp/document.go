package lsp

import (
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"
)

// Document represents an open text document in the editor.
// A Document is never modified after it is stored; updates replace it.
type Document struct {
	URI         string       // Document URI (file:///path/to/notes.md)
	Content     string       // Full document content
	Version     int          // Version number, incremented on each change
	Lines       []int        // Byte offsets of line starts
	Diagnostics []Diagnostic // Last published diagnostics
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store.
func (s *DocumentStore) Open(uri string, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[uri] = newDocument(uri, content, version)
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get retrieves a document by URI.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.documents[uri]
}

// Update replaces an open document's content.
func (s *DocumentStore) Update(uri string, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[uri]; ok {
		s.documents[uri] = newDocument(uri, content, version)
	}
}

// SetDiagnostics records the diagnostics published for a document version.
// Diagnostics for a stale version are dropped.
func (s *DocumentStore) SetDiagnostics(uri string, version int, diags []Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[uri]
	if !ok || doc.Version != version {
		return
	}
	next := *doc
	next.Diagnostics = diags
	s.documents[uri] = &next
}

// List returns all open document URIs, sorted.
func (s *DocumentStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uris := make([]string, 0, len(s.documents))
	for uri := range s.documents {
		uris = append(uris, uri)
	}
	sort.Strings(uris)
	return uris
}

func newDocument(uri, content string, version int) *Document {
	return &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   computeLineOffsets(content),
	}
}

// computeLineOffsets calculates byte offsets for each line start.
// "\n", "\r\n", and a lone "\r" each end a line.
func computeLineOffsets(content string) []int {
	offsets := []int{0} // First line starts at offset 0

	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			offsets = append(offsets, i+1)
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// Positions converts codepoint offsets into the document to LSP positions,
// counting characters in UTF-16 code units. Offsets past the end map to
// the end of the document. The content is scanned once.
func (d *Document) Positions(offsets []int) []Position {
	out := make([]Position, len(offsets))
	if len(offsets) == 0 {
		return out
	}

	order := make([]int, len(offsets))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return offsets[order[a]] < offsets[order[b]] })

	var line, char uint32
	runeIdx, k := 0, 0
	for i := 0; ; {
		for k < len(order) && offsets[order[k]] <= runeIdx {
			out[order[k]] = Position{Line: line, Character: char}
			k++
		}
		if k == len(order) || i >= len(d.Content) {
			break
		}

		r, size := utf8.DecodeRuneInString(d.Content[i:])
		switch {
		case r == '\n':
			line, char = line+1, 0
		case r == '\r' && (i+1 >= len(d.Content) || d.Content[i+1] != '\n'):
			line, char = line+1, 0
		default:
			char += uint32(utf16.RuneLen(r)) //nolint:gosec // G115: 1 or 2
		}
		i += size
		runeIdx++
	}
	for ; k < len(order); k++ {
		out[order[k]] = Position{Line: line, Character: char}
	}
	return out
}

// PositionToOffset converts a Position to a byte offset in the document.
// The character is counted in UTF-16 code units and clamped to the line.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}

	offset := d.Lines[line]
	end := d.lineEnd(line)
	units := uint32(0)
	for offset < end && units < pos.Character {
		r, size := utf8.DecodeRuneInString(d.Content[offset:end])
		units += uint32(utf16.RuneLen(r)) //nolint:gosec // G115: 1 or 2
		offset += size
	}
	return offset
}

// lineEnd returns the byte offset where line's content ends, before its terminator.
func (d *Document) lineEnd(line int) int {
	end := len(d.Content)
	if line+1 < len(d.Lines) {
		end = d.Lines[line+1]
	}
	for end > d.Lines[line] && (d.Content[end-1] == '\n' || d.Content[end-1] == '\r') {
		end--
	}
	return end
}

// GetLine returns the content of a specific line, without its terminator.
func (d *Document) GetLine(line int) string {
	if d == nil || line < 0 || line >= len(d.Lines) {
		return ""
	}
	return d.Content[d.Lines[line]:d.lineEnd(line)]
}

// GetTextInRange returns the text within a range.
func (d *Document) GetTextInRange(r Range) string {
	start := d.PositionToOffset(r.Start)
	end := d.PositionToOffset(r.End)
	if start >= end || start >= len(d.Content) {
		return ""
	}
	return d.Content[start:end]
}

// DiagnosticsAt returns the stored diagnostics whose range contains pos.
func (d *Document) DiagnosticsAt(pos Position) []Diagnostic {
	var out []Diagnostic
	for _, diag := range d.Diagnostics {
		if diag.Range.Contains(pos) {
			out = append(out, diag)
		}
	}
	return out
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	u, err := url.Parse(uri)
	if err != nil {
		return strings.TrimPrefix(uri, "file://")
	}
	return filepath.FromSlash(u.Path)
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
