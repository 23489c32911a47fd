// Package textio reads prose input from files and streams.
//
// Input is decoded to UTF-8 before linting. A byte order mark selects the
// encoding (UTF-8, UTF-16LE, or UTF-16BE) and is stripped; input without a
// BOM is read as UTF-8, with invalid sequences replaced by U+FFFD.
package textio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// StdinName is the path that selects standard input.
const StdinName = "-"

// ErrTooLarge is returned when input exceeds the read limit.
var ErrTooLarge = errors.New("input too large")

// Decode converts raw bytes to UTF-8 text.
func Decode(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(out), nil
}

// Read decodes everything from r. At most limit bytes are read when limit
// is positive; longer input is an error wrapping ErrTooLarge.
func Read(r io.Reader, limit int) (string, error) {
	if limit > 0 {
		// one extra byte detects overflow
		r = io.LimitReader(r, int64(limit)+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if limit > 0 && len(data) > limit {
		return "", fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return Decode(data)
}

// ReadFile decodes the named file, or standard input when path is "-".
// Markup in HTML files is masked (see MaskHTML).
func ReadFile(path string, limit int) (string, error) {
	if path == StdinName {
		return Read(os.Stdin, limit)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	text, err := Read(f, limit)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if IsHTML(path) {
		return MaskHTML(text), nil
	}
	return text, nil
}

// IsHTML reports whether path names an HTML file.
func IsHTML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return true
	}
	return false
}
