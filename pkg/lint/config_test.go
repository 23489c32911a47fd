package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapprose/pkg/core"
)

func TestConfig_IsDisabled(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		id     string
		want   bool
	}{
		{name: "nil config", config: nil, id: "weasel_words.very", want: false},
		{name: "empty config", config: NewConfig(), id: "weasel_words.very", want: false},
		{name: "exact id", config: NewConfig().Disable("weasel_words.very"), id: "weasel_words.very", want: true},
		{name: "category prefix", config: NewConfig().Disable("weasel_words"), id: "weasel_words.very", want: true},
		{name: "sub-group prefix", config: NewConfig().Disable("typography.symbols"), id: "typography.symbols.ellipsis", want: true},
		{name: "prefix must end at a dot", config: NewConfig().Disable("weasel"), id: "weasel_words.very", want: false},
		{
			name:   "longest key wins over category",
			config: NewConfig().Disable("weasel_words").Enable("weasel_words.very"),
			id:     "weasel_words.very",
			want:   false,
		},
		{
			name:   "sibling stays disabled",
			config: NewConfig().Disable("weasel_words").Enable("weasel_words.very"),
			id:     "weasel_words.really",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.IsDisabled(tt.id))
		})
	}
}

func TestConfig_GetSeverity(t *testing.T) {
	cfg := NewConfig().
		SetSeverity("typography", core.SeverityError).
		SetSeverity("typography.symbols.ellipsis", core.SeverityWarning)

	assert.Equal(t, core.SeverityWarning, cfg.GetSeverity("typography.symbols.ellipsis", core.SeveritySuggestion))
	assert.Equal(t, core.SeverityError, cfg.GetSeverity("typography.symbols.dash", core.SeveritySuggestion))
	assert.Equal(t, core.SeveritySuggestion, cfg.GetSeverity("hedging.sort_of", core.SeveritySuggestion))

	var nilCfg *Config
	assert.Equal(t, core.SeverityWarning, nilCfg.GetSeverity("hedging.sort_of", core.SeverityWarning))
}

func TestConfig_Resolve(t *testing.T) {
	r := newFixtureRegistry()

	t.Run("default enables everything", func(t *testing.T) {
		set := NewConfig().Resolve(r)
		assert.Equal(t, r.IDs(), set.IDs())
		assert.True(t, set.CheckQuotes())
		assert.Equal(t, 0, set.MaxErrors())
	})

	t.Run("nil config enables everything", func(t *testing.T) {
		var cfg *Config
		set := cfg.Resolve(r)
		assert.Equal(t, r.Len(), set.Len())
	})

	t.Run("meta flag hard-disables its categories", func(t *testing.T) {
		set := NewConfig().
			DisableMeta("style").
			Enable("weasel_words.very").
			Resolve(r)

		assert.False(t, set.Contains("weasel_words.very"))
		assert.False(t, set.Contains("hedging.sort_of"))
		assert.False(t, set.Contains("cliches.general"))
		assert.True(t, set.Contains("typography.symbols.ellipsis"))
	})

	t.Run("category name acts as meta flag", func(t *testing.T) {
		set := NewConfig().DisableMeta("typography").Resolve(r)
		assert.False(t, set.Contains("typography.symbols.ellipsis"))
		assert.True(t, set.Contains("weasel_words.very"))
	})

	t.Run("enabled meta flag changes nothing", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Meta["style"] = true
		cfg.Disable("hedging")
		set := cfg.Resolve(r)
		assert.False(t, set.Contains("hedging.sort_of"))
		assert.True(t, set.Contains("weasel_words.very"))
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		cfg := NewConfig().Disable("no_such_category").DisableMeta("no_such_meta")
		cfg.SetSeverity("no.such.check", core.SeverityError)
		set := cfg.Resolve(r)
		assert.Equal(t, r.Len(), set.Len())
	})

	t.Run("severity overrides are resolved", func(t *testing.T) {
		set := NewConfig().SetSeverity("weasel_words", core.SeverityError).Resolve(r)

		sev, ok := set.Severity("weasel_words.really")
		require.True(t, ok)
		assert.Equal(t, core.SeverityError, sev)

		sev, ok = set.Severity("hedging.sort_of")
		require.True(t, ok)
		assert.Equal(t, core.SeveritySuggestion, sev)

		_, ok = set.Severity("missing")
		assert.False(t, ok)
	})

	t.Run("quotes and max errors carry through", func(t *testing.T) {
		set := NewConfig().SetCheckQuotes(false).SetMaxErrors(3).Resolve(r)
		assert.False(t, set.CheckQuotes())
		assert.Equal(t, 3, set.MaxErrors())
	})

	t.Run("registry order is preserved", func(t *testing.T) {
		set := NewConfig().Disable("hedging").Resolve(r)
		ids := set.IDs()
		for i := 1; i < len(ids); i++ {
			assert.Less(t, r.Index(ids[i-1]), r.Index(ids[i]))
		}
	})
}

func TestConfigFromMap(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		check   func(t *testing.T, cfg *Config)
		wantErr string
	}{
		{
			name: "nil map is the default config",
			raw:  nil,
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Checks)
				assert.Nil(t, cfg.CheckQuotes)
				assert.True(t, cfg.checkQuotes())
			},
		},
		{
			name: "all recognized keys",
			raw: map[string]any{
				"checks":       map[string]any{"weasel_words": false, "weasel_words.very": true},
				"meta":         map[string]any{"style": false},
				"check_quotes": false,
				"max_errors":   float64(5),
				"severity":     map[string]any{"hedging": "error"},
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, map[string]bool{"weasel_words": false, "weasel_words.very": true}, cfg.Checks)
				assert.Equal(t, map[string]bool{"style": false}, cfg.Meta)
				require.NotNil(t, cfg.CheckQuotes)
				assert.False(t, *cfg.CheckQuotes)
				assert.Equal(t, 5, cfg.MaxErrors)
				assert.Equal(t, core.SeverityError, cfg.SeverityOverrides["hedging"])
			},
		},
		{
			name: "weakly typed scalars",
			raw: map[string]any{
				"checks":       map[string]any{"hedging": "false"},
				"check_quotes": "true",
				"max_errors":   "2",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.Checks["hedging"])
				require.NotNil(t, cfg.CheckQuotes)
				assert.True(t, *cfg.CheckQuotes)
				assert.Equal(t, 2, cfg.MaxErrors)
			},
		},
		{
			name: "unknown keys are ignored",
			raw:  map[string]any{"colour": "blue"},
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Checks)
			},
		},
		{
			name:    "unknown severity",
			raw:     map[string]any{"severity": map[string]any{"hedging": "fatal"}},
			wantErr: "invalid config",
		},
		{
			name:    "negative max errors",
			raw:     map[string]any{"max_errors": -1},
			wantErr: "max_errors must be >= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ConfigFromMap(tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}
