package checks

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/lint"
)

// categoryFile is the layout of one data/<category>.yaml file.
type categoryFile struct {
	Checks   []checkDecl  `yaml:"checks"`
	Families []familyDecl `yaml:"families"`
}

// checkDecl declares a single check.
type checkDecl struct {
	ID          string   `yaml:"id"`
	Message     string   `yaml:"message"`
	Kind        string   `yaml:"kind"`
	Severity    string   `yaml:"severity"`
	Pattern     string   `yaml:"pattern"`
	Words       []string `yaml:"words"`
	Exceptions  []string `yaml:"exceptions"`
	First       string   `yaml:"first"`
	Second      string   `yaml:"second"`
	MaxDistance int      `yaml:"max_distance"`
	Proc        string   `yaml:"proc"`
	Replacement string   `yaml:"replacement"`
	AllowQuotes bool     `yaml:"allow_quotes"`
}

// familyDecl declares one check per entry from shared templates.
// Templates reference entry columns as {1}, {2}, ...; the check ID is
// the family ID plus the slug of Key (default "{1}").
type familyDecl struct {
	ID          string     `yaml:"id"`
	Message     string     `yaml:"message"`
	Kind        string     `yaml:"kind"`
	Severity    string     `yaml:"severity"`
	Key         string     `yaml:"key"`
	Pattern     string     `yaml:"pattern"`
	Replacement string     `yaml:"replacement"`
	AllowQuotes bool       `yaml:"allow_quotes"`
	Entries     [][]string `yaml:"entries"`
}

// Load reads the given categories, in order, from data/<category>.yaml
// files in fsys and returns their checks in registration order.
func Load(fsys fs.FS, categories []string) ([]lint.Check, error) {
	var out []lint.Check
	for _, cat := range categories {
		file := path.Join("data", cat+".yaml")
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		var cf categoryFile
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}

		checks, err := cf.build(cat)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		out = append(out, checks...)
	}
	return out, nil
}

func (cf *categoryFile) build(category string) ([]lint.Check, error) {
	out := make([]lint.Check, 0, len(cf.Checks))

	for i := range cf.Checks {
		c, err := cf.Checks[i].toCheck()
		if err != nil {
			return nil, err
		}
		if c.Category() != category {
			return nil, fmt.Errorf("check %q is outside category %q", c.ID, category)
		}
		out = append(out, c)
	}

	for i := range cf.Families {
		checks, err := cf.Families[i].expand()
		if err != nil {
			return nil, err
		}
		for _, c := range checks {
			if c.Category() != category {
				return nil, fmt.Errorf("check %q is outside category %q", c.ID, category)
			}
		}
		out = append(out, checks...)
	}
	return out, nil
}

func (s *checkDecl) toCheck() (lint.Check, error) {
	if s.ID == "" {
		return lint.Check{}, errors.New("check without id")
	}
	kind, ok := lint.ParseKind(s.Kind)
	if !ok {
		return lint.Check{}, fmt.Errorf("check %q: unknown kind %q", s.ID, s.Kind)
	}
	sev, err := parseSeverity(s.Severity)
	if err != nil {
		return lint.Check{}, fmt.Errorf("check %q: %w", s.ID, err)
	}

	c := lint.Check{
		ID:          s.ID,
		Message:     norm.NFC.String(s.Message),
		Severity:    sev,
		Kind:        kind,
		Pattern:     s.Pattern,
		Words:       s.Words,
		Exceptions:  s.Exceptions,
		First:       s.First,
		Second:      s.Second,
		MaxDistance: s.MaxDistance,
		AllowQuotes: s.AllowQuotes,
		Replacement: norm.NFC.String(s.Replacement),
	}
	if kind == lint.KindProc {
		fn, ok := procs[s.Proc]
		if !ok {
			return lint.Check{}, fmt.Errorf("check %q: unknown proc %q", s.ID, s.Proc)
		}
		c.Proc = fn
	}
	return c, nil
}

func (f *familyDecl) expand() ([]lint.Check, error) {
	if f.ID == "" {
		return nil, errors.New("family without id")
	}
	key := f.Key
	if key == "" {
		key = "{1}"
	}
	pattern := f.Pattern
	if pattern == "" {
		pattern = "{1}"
	}

	out := make([]lint.Check, 0, len(f.Entries))
	for i, entry := range f.Entries {
		if len(entry) == 0 {
			return nil, fmt.Errorf("family %q: entry %d is empty", f.ID, i)
		}
		r := entryReplacer(entry)

		suffix := slug(r.Replace(key))
		if suffix == "" {
			return nil, fmt.Errorf("family %q: entry %d has an empty key", f.ID, i)
		}
		decl := checkDecl{
			ID:          f.ID + "." + suffix,
			Message:     r.Replace(f.Message),
			Kind:        f.Kind,
			Severity:    f.Severity,
			Pattern:     r.Replace(pattern),
			Replacement: r.Replace(f.Replacement),
			AllowQuotes: f.AllowQuotes,
		}
		c, err := decl.toCheck()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func entryReplacer(entry []string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(entry))
	for i, v := range entry {
		pairs = append(pairs, "{"+strconv.Itoa(i+1)+"}", v)
	}
	return strings.NewReplacer(pairs...)
}

// parseSeverity defaults to warning when no severity is given.
func parseSeverity(s string) (core.Severity, error) {
	if s == "" {
		return core.SeverityWarning, nil
	}
	sev, ok := core.ParseSeverity(s)
	if !ok {
		return core.SeverityWarning, fmt.Errorf("unknown severity %q", s)
	}
	return sev, nil
}

var slugEscapes = regexp.MustCompile(`\\b|\\s[+*]?`)

// slug turns a pattern or phrase into an ID segment: regexp escapes are
// dropped, diacritics are stripped, and every run of characters other than
// ASCII letters and digits becomes one underscore.
func slug(s string) string {
	s = slugEscapes.ReplaceAllStringFunc(s, func(m string) string {
		if m == `\b` {
			return ""
		}
		return " "
	})
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	sep := false
	for _, r := range strings.ToLower(s) {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			b.WriteRune(r)
			sep = false
		} else if !sep {
			b.WriteByte('_')
			sep = true
		}
	}
	return strings.Trim(b.String(), "_")
}
