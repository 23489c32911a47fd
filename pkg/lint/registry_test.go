package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Order(t *testing.T) {
	r := newFixtureRegistry()

	require.Equal(t, len(fixtureChecks()), r.Len())
	assert.Equal(t, "weasel_words.very", r.All()[0].ID)
	assert.Equal(t, 0, r.Index("weasel_words.very"))
	assert.Equal(t, 1, r.Index("weasel_words.really"))
	assert.Equal(t, -1, r.Index("does.not.exist"))

	ids := r.IDs()
	for i, c := range r.All() {
		assert.Equal(t, c.ID, ids[i])
	}
}

func TestNewRegistry_DuplicatePanics(t *testing.T) {
	checks := []Check{
		{ID: "weasel_words.very", Kind: KindPattern, Pattern: "very"},
		{ID: "weasel_words.very", Kind: KindPattern, Pattern: "really"},
	}
	assert.PanicsWithValue(t, `lint: duplicate check ID "weasel_words.very"`, func() {
		NewRegistry(checks)
	})
}

func TestNewRegistry_EmptyIDPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewRegistry([]Check{{Kind: KindPattern, Pattern: "x"}})
	})
}

func TestRegistry_Find(t *testing.T) {
	r := newFixtureRegistry()

	c, ok := r.Find("hedging.sort_of")
	require.True(t, ok)
	assert.Equal(t, "hedging", c.Category())

	_, ok = r.Find("hedging")
	assert.False(t, ok)
}

func TestRegistry_Categories(t *testing.T) {
	r := newFixtureRegistry()

	assert.Equal(t, []string{
		"weasel_words", "hedging", "typography", "cliches", "redundancy", "lexical_illusions", "misc",
	}, r.Categories())

	weasel := r.ByCategory("weasel_words")
	require.Len(t, weasel, 2)
	assert.Equal(t, "weasel_words.very", weasel[0].ID)
	assert.Empty(t, r.ByCategory("nope"))
}

func TestRegistry_Meta(t *testing.T) {
	r := newFixtureRegistry()

	cats, ok := r.Meta("style")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"weasel_words", "hedging", "cliches"}, cats)

	cats, ok = r.Meta("typography")
	require.True(t, ok, "category names are implicit meta-flags")
	assert.Equal(t, []string{"typography"}, cats)

	_, ok = r.Meta("unknown")
	assert.False(t, ok)

	flags := r.MetaFlags()
	require.Len(t, flags, 1)
	assert.Equal(t, "style", flags[0].Name)
}

func TestRegistry_Validate(t *testing.T) {
	r := newFixtureRegistry()

	errs := r.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "misc.broken")
}

func TestRegistry_Infos(t *testing.T) {
	r := newFixtureRegistry()

	infos := r.Infos()
	require.Len(t, infos, r.Len())
	assert.Equal(t, "typography.symbols.ellipsis", infos[3].ID)
	assert.Equal(t, "raw", infos[3].Kind)
	assert.Equal(t, "…", infos[3].Replacement)
	assert.Equal(t, "typography", infos[3].Category)
}
