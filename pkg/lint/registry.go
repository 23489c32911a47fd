package lint

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/leapprose/pkg/core"
)

// Registry is the ordered, immutable catalog of checks.
// Registration order is the tie-break for findings at the same offset.
// A Registry needs no locking: nothing mutates it after NewRegistry returns.
type Registry struct {
	checks     []*Check
	byID       map[string]int
	categories []string
	byCategory map[string][]*Check
	metas      map[string][]string
}

// NewRegistry builds a registry from checks in order.
// It panics if two checks share an ID or a check has an empty ID;
// both are programming errors in the catalog, not runtime conditions.
func NewRegistry(checks []Check, metas ...MetaFlag) *Registry {
	r := &Registry{
		checks:     make([]*Check, 0, len(checks)),
		byID:       make(map[string]int, len(checks)),
		byCategory: make(map[string][]*Check),
		metas:      make(map[string][]string, len(metas)),
	}

	for i := range checks {
		c := checks[i]
		if c.ID == "" {
			panic(fmt.Sprintf("lint: check at position %d has no ID", i))
		}
		if _, dup := r.byID[c.ID]; dup {
			panic(fmt.Sprintf("lint: duplicate check ID %q", c.ID))
		}
		r.byID[c.ID] = len(r.checks)
		r.checks = append(r.checks, &c)

		cat := c.Category()
		if _, seen := r.byCategory[cat]; !seen {
			r.categories = append(r.categories, cat)
		}
		r.byCategory[cat] = append(r.byCategory[cat], &c)
	}

	for _, m := range metas {
		r.metas[m.Name] = append([]string(nil), m.Categories...)
	}

	return r
}

// All returns every check in registration order.
// The returned slice must not be modified.
func (r *Registry) All() []*Check {
	return r.checks
}

// Len returns the number of registered checks.
func (r *Registry) Len() int {
	return len(r.checks)
}

// Find returns a check by ID.
func (r *Registry) Find(id string) (*Check, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.checks[i], true
}

// Index returns the registration position of a check, or -1.
func (r *Registry) Index(id string) int {
	if i, ok := r.byID[id]; ok {
		return i
	}
	return -1
}

// IDs returns every check ID in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.checks))
	for i, c := range r.checks {
		ids[i] = c.ID
	}
	return ids
}

// Categories returns category names in order of first appearance.
func (r *Registry) Categories() []string {
	return append([]string(nil), r.categories...)
}

// ByCategory returns the checks of one category in registration order.
func (r *Registry) ByCategory(category string) []*Check {
	return r.byCategory[category]
}

// Meta returns the categories a meta-flag controls.
// Every category name is implicitly a meta-flag for itself.
func (r *Registry) Meta(name string) ([]string, bool) {
	if cats, ok := r.metas[name]; ok {
		return cats, true
	}
	if _, ok := r.byCategory[name]; ok {
		return []string{name}, true
	}
	return nil, false
}

// MetaFlags returns the explicitly declared meta-flags sorted by name.
func (r *Registry) MetaFlags() []MetaFlag {
	flags := make([]MetaFlag, 0, len(r.metas))
	for name, cats := range r.metas {
		flags = append(flags, MetaFlag{Name: name, Categories: append([]string(nil), cats...)})
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })
	return flags
}

// Infos returns introspection DTOs for every check in registration order.
func (r *Registry) Infos() []core.CheckInfo {
	infos := make([]core.CheckInfo, len(r.checks))
	for i, c := range r.checks {
		infos[i] = c.Info()
	}
	return infos
}

// Validate compiles every check without caching and returns one error per
// check that cannot be compiled.
func (r *Registry) Validate() []error {
	var errs []error
	for _, c := range r.checks {
		if _, err := compile(c); err != nil {
			errs = append(errs, fmt.Errorf("check %q: %w", c.ID, err))
		}
	}
	return errs
}
