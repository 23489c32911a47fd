package lint

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// cacheEntry is a compiled matcher or the error that prevented compiling it.
type cacheEntry struct {
	matcher *Matcher
	err     error
}

// MatcherCache lazily compiles matchers and keeps them for its lifetime.
//
// Concurrent GetOrBuild calls for the same check may both compile, but only
// the first stored entry is kept and returned to every caller. Compilation is
// a pure function of the Check, so a discarded duplicate is harmless.
// Failures are cached too, so a broken check is compiled once and skipped after.
type MatcherCache struct {
	entries sync.Map // check ID -> *cacheEntry
	builds  atomic.Int64
	compile func(*Check) (*Matcher, error)
	logger  *slog.Logger
}

// NewMatcherCache creates an empty cache.
func NewMatcherCache(logger *slog.Logger) *MatcherCache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MatcherCache{compile: compile, logger: logger}
}

// GetOrBuild returns the matcher for a check, compiling it on first use.
func (mc *MatcherCache) GetOrBuild(c *Check) (*Matcher, error) {
	if v, ok := mc.entries.Load(c.ID); ok {
		e := v.(*cacheEntry)
		return e.matcher, e.err
	}

	m, err := mc.compile(c)
	mc.builds.Add(1)

	v, loaded := mc.entries.LoadOrStore(c.ID, &cacheEntry{matcher: m, err: err})
	e := v.(*cacheEntry)
	if !loaded && e.err != nil {
		mc.logger.Warn("check failed to compile and will be skipped",
			"check", c.ID,
			"error", e.err)
	}
	return e.matcher, e.err
}

// WarmAll compiles every check in the registry and returns how many have a
// usable matcher, whether they were compiled now or earlier.
func (mc *MatcherCache) WarmAll(r *Registry) int {
	n := 0
	for _, c := range r.All() {
		if _, err := mc.GetOrBuild(c); err == nil {
			n++
		}
	}
	return n
}

// Len returns the number of cached entries, failed ones included.
func (mc *MatcherCache) Len() int {
	n := 0
	mc.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Builds returns how many times a matcher was compiled, duplicates included.
func (mc *MatcherCache) Builds() int64 {
	return mc.builds.Load()
}
