// Package host exposes the lint engine through a string-in, string-out
// boundary suitable for embedding: every result is JSON, and failures come
// back as {"error": "..."} objects instead of Go errors.
//
// Results are either a JSON array of findings or an error object:
//
//	l := host.New()
//	out := l.Lint("This is very good.")
//	// [{"check":"weasel_words.very","message":"...","line":1,"column":9,...}]
package host

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/leapstack-labs/leapprose/pkg/lint"
	"github.com/leapstack-labs/leapprose/pkg/lint/checks"
)

// Linter lints texts against the default catalog with a fixed configuration.
// It is safe for concurrent use.
type Linter struct {
	engine *lint.Engine
}

// New creates a Linter with the default configuration.
// Options are passed to the underlying engine.
func New(opts ...lint.Option) *Linter {
	return &Linter{engine: lint.NewEngine(checks.Default(), opts...)}
}

// NewWithConfig creates a Linter from a JSON configuration object such as
// {"check_quotes": false, "checks": {"weasel_words": false}}.
// Invalid JSON or invalid values are reported as an error.
func NewWithConfig(configJSON string, opts ...lint.Option) (*Linter, error) {
	cfg, err := ParseConfig(configJSON)
	if err != nil {
		return nil, err
	}
	return New(append([]lint.Option{lint.WithConfig(cfg)}, opts...)...), nil
}

// ParseConfig decodes a JSON configuration object. "null" and the empty
// string yield the default configuration.
func ParseConfig(configJSON string) (*lint.Config, error) {
	var raw map[string]any
	if configJSON != "" {
		if err := json.Unmarshal([]byte(configJSON), &raw); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}
	return lint.ConfigFromMap(raw)
}

// Engine returns the underlying engine.
func (l *Linter) Engine() *lint.Engine {
	return l.engine
}

// Lint lints text and returns a JSON array of findings, or an error object
// when the text exceeds the size limit.
func (l *Linter) Lint(text string) string {
	findings, err := l.engine.Lint(text)
	if err != nil {
		return errorJSON(err)
	}
	return encode(nonNil(findings))
}

// LintCount returns the number of findings for text, or -1 when the text
// exceeds the size limit.
func (l *Linter) LintCount(text string) int {
	n, err := l.engine.LintCount(text)
	if err != nil {
		return -1
	}
	return n
}

// LintBatch lints a JSON array of strings and returns a JSON array with one
// entry per text: its findings array, or an error object when that text
// exceeds the size limit. Malformed input or an oversized batch yields a
// single error object.
func (l *Linter) LintBatch(textsJSON string) string {
	texts, err := lint.ParseBatch([]byte(textsJSON))
	if err != nil {
		return errorJSON(err)
	}
	items, err := l.engine.LintBatch(texts)
	if err != nil {
		return errorJSON(err)
	}
	return encode(BatchResults(items))
}

// WarmAll compiles every check ahead of use and returns how many compiled.
func (l *Linter) WarmAll() int {
	return l.engine.WarmAll()
}

// BatchResults converts batch items into their JSON shape: a findings array
// per item, or an error object for a failed item.
func BatchResults(items []lint.BatchItem) []any {
	out := make([]any, len(items))
	for i, item := range items {
		if item.Err != nil {
			out[i] = ErrorBody{Error: item.Err.Error()}
			continue
		}
		out[i] = nonNil(item.Findings)
	}
	return out
}

// ErrorBody is the JSON object returned in place of a result on failure.
type ErrorBody struct {
	Error string `json:"error"`
}

// AvailableChecks returns the IDs of every check in the default catalog as a
// JSON array, in registry order.
func AvailableChecks() string {
	return encode(checks.Default().IDs())
}

// Version returns the engine version.
func Version() string {
	return lint.Version
}

var defaultLinter = sync.OnceValue(func() *Linter { return New() })

// Lint is a one-shot convenience over a shared default Linter.
func Lint(text string) string {
	return defaultLinter().Lint(text)
}

func nonNil(findings []lint.Finding) []lint.Finding {
	if findings == nil {
		return []lint.Finding{}
	}
	return findings
}

func errorJSON(err error) string {
	return encode(ErrorBody{Error: err.Error()})
}

func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, "failed to serialize results: "+err.Error())
	}
	return string(data)
}
