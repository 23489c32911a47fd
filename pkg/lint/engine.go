package lint

import (
	"log/slog"
	"sort"

	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/token"
)

// Version is the engine version reported to hosts.
const Version = "0.1.0"

// Engine runs the active checks of a registry over texts.
//
// The registry and active set are fixed at construction; the matcher cache
// fills lazily. An Engine is safe for concurrent use, and a failed call never
// leaves it in a state that affects later calls.
type Engine struct {
	registry  *Registry
	cache     *MatcherCache
	active    *ActiveSet
	limits    Limits
	logger    *slog.Logger
	prefilter bool
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	config      *Config
	limits      Limits
	logger      *slog.Logger
	cache       *MatcherCache
	noPrefilter bool
}

// WithConfig sets the configuration resolved at construction.
func WithConfig(cfg *Config) Option {
	return func(o *engineOptions) { o.config = cfg }
}

// WithLimits overrides the resource limits. Zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(o *engineOptions) { o.limits = l }
}

// WithLogger sets the logger used for check failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) { o.logger = logger }
}

// WithCache shares a matcher cache with other engines over the same
// registry, so engines built per configuration compile each check once.
func WithCache(c *MatcherCache) Option {
	return func(o *engineOptions) { o.cache = c }
}

// WithoutPrefilter scans every pattern over the whole text, even when its
// required literals are absent. Findings are the same either way.
func WithoutPrefilter() Option {
	return func(o *engineOptions) { o.noPrefilter = true }
}

// NewEngine creates an engine over registry r.
func NewEngine(r *Registry, opts ...Option) *Engine {
	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.cache == nil {
		o.cache = NewMatcherCache(o.logger)
	}

	return &Engine{
		registry:  r,
		cache:     o.cache,
		active:    o.config.Resolve(r),
		limits:    o.limits.withDefaults(),
		logger:    o.logger,
		prefilter: !o.noPrefilter,
	}
}

// Registry returns the engine's registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Cache returns the engine's matcher cache.
func (e *Engine) Cache() *MatcherCache {
	return e.cache
}

// Active returns the resolved active check set.
func (e *Engine) Active() *ActiveSet {
	return e.active
}

// Limits returns the effective resource limits.
func (e *Engine) Limits() Limits {
	return e.limits
}

// Lint runs every active check over text.
//
// Findings are ordered by start offset, then registry order, then end offset.
// Text larger than the size limit is rejected with a *LimitError before any
// check runs. A check that fails to compile or run contributes no findings.
func (e *Engine) Lint(text string) ([]Finding, error) {
	return e.lint(text, -1)
}

// lint is the single code path behind every Lint variant.
// index is the batch position of text, or -1.
func (e *Engine) lint(text string, index int) ([]Finding, error) {
	if len(text) > e.limits.MaxTextBytes {
		return nil, &LimitError{Kind: InputTooLarge, Size: len(text), Max: e.limits.MaxTextBytes, Index: index}
	}

	findings := []Finding{}
	if text == "" {
		return findings, nil
	}

	lines := token.NewLineIndex(text)
	var folded *foldedText
	if e.prefilter {
		folded = newFoldedText(text)
	}
	var quotes *token.QuoteIndex
	orders := make([]int, 0)

	for _, ac := range e.active.checks {
		if !e.active.checkQuotes && !ac.check.AllowQuotes && quotes == nil {
			quotes = token.NewQuoteIndex(text)
		}

		found, err := e.runCheck(ac, text, folded, lines, quotes)
		if err != nil {
			e.logger.Debug("check skipped", "error", err)
			continue
		}
		for range found {
			orders = append(orders, ac.order)
		}
		findings = append(findings, found...)
	}

	sortFindings(findings, orders)

	if e.active.maxErrors > 0 && len(findings) > e.active.maxErrors {
		findings = findings[:e.active.maxErrors]
	}
	return findings, nil
}

// runCheck produces the findings of one check, or an error if the check
// cannot contribute. Findings of a failing check are discarded as a whole.
func (e *Engine) runCheck(ac activeCheck, text string, folded *foldedText, lines *token.LineIndex, quotes *token.QuoteIndex) ([]Finding, error) {
	c := ac.check

	m, err := e.cache.GetOrBuild(c)
	if err != nil {
		return nil, &checkFailure{CheckID: c.ID, Err: err}
	}
	matches, err := m.find(text, folded)
	if err != nil {
		return nil, &checkFailure{CheckID: c.ID, Err: err}
	}

	out := make([]Finding, 0, len(matches))
	for _, mt := range matches {
		if quotes != nil && !c.AllowQuotes && quotes.Overlaps(mt.Start, mt.End) {
			continue
		}

		start, err := lines.Position(mt.Start)
		if err != nil {
			return nil, &checkFailure{CheckID: c.ID, Err: err}
		}
		end, err := lines.RuneOffset(mt.End)
		if err != nil {
			return nil, &checkFailure{CheckID: c.ID, Err: err}
		}

		out = append(out, Finding{
			Check:       c.ID,
			Message:     c.Message,
			Line:        start.Line,
			Column:      start.Column,
			Start:       start.Offset,
			End:         end,
			Severity:    ac.severity,
			Replacement: c.Replacement,
		})
	}
	return out, nil
}

// sortFindings orders findings by (start, registry order, end).
// orders[i] is the registry position of the check behind findings[i].
func sortFindings(findings []Finding, orders []int) {
	idx := make([]int, len(findings))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		fa, fb := &findings[idx[a]], &findings[idx[b]]
		if fa.Start != fb.Start {
			return fa.Start < fb.Start
		}
		if orders[idx[a]] != orders[idx[b]] {
			return orders[idx[a]] < orders[idx[b]]
		}
		return fa.End < fb.End
	})

	sorted := make([]Finding, len(findings))
	for i, j := range idx {
		sorted[i] = findings[j]
	}
	copy(findings, sorted)
}

// LintCount returns len(Lint(text)).
func (e *Engine) LintCount(text string) (int, error) {
	findings, err := e.Lint(text)
	if err != nil {
		return 0, err
	}
	return len(findings), nil
}

// LintErrors returns only findings with error severity.
func (e *Engine) LintErrors(text string) ([]Finding, error) {
	return e.lintFiltered(text, func(f Finding) bool { return f.IsError() })
}

// LintWarnings returns findings with warning severity or worse.
func (e *Engine) LintWarnings(text string) ([]Finding, error) {
	return e.lintFiltered(text, func(f Finding) bool { return f.Severity.AtLeast(core.SeverityWarning) })
}

// LintCategory returns findings from checks of one category.
func (e *Engine) LintCategory(text, category string) ([]Finding, error) {
	return e.lintFiltered(text, func(f Finding) bool { return f.Category() == category })
}

// HasIssues reports whether text produces any finding.
func (e *Engine) HasIssues(text string) (bool, error) {
	n, err := e.LintCount(text)
	return n > 0, err
}

func (e *Engine) lintFiltered(text string, keep func(Finding) bool) ([]Finding, error) {
	findings, err := e.Lint(text)
	if err != nil {
		return nil, err
	}
	out := findings[:0]
	for _, f := range findings {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

// WarmAll compiles every registered check and returns how many compiled.
// Warming changes timing only, never results.
func (e *Engine) WarmAll() int {
	return e.cache.WarmAll(e.registry)
}

// AvailableChecks returns every registered check ID in registry order.
func (e *Engine) AvailableChecks() []string {
	return e.registry.IDs()
}

// Checks returns introspection data for every registered check.
func (e *Engine) Checks() []core.CheckInfo {
	return e.registry.Infos()
}

// Version returns the engine version.
func (e *Engine) Version() string {
	return Version
}
