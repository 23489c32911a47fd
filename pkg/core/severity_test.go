package core_test

import (
	"encoding/json"
	"testing"

	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in     string
		want   core.Severity
		wantOK bool
	}{
		{"error", core.SeverityError, true},
		{"Warning", core.SeverityWarning, true},
		{" suggestion ", core.SeveritySuggestion, true},
		{"hint", core.SeverityWarning, false},
		{"", core.SeverityWarning, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := core.ParseSeverity(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeverity_AtLeast(t *testing.T) {
	assert.True(t, core.SeverityError.AtLeast(core.SeverityWarning))
	assert.True(t, core.SeverityWarning.AtLeast(core.SeverityWarning))
	assert.False(t, core.SeveritySuggestion.AtLeast(core.SeverityWarning))
}

func TestSeverity_JSON(t *testing.T) {
	info := core.CheckInfo{ID: "weasel_words.very", DefaultSeverity: core.SeverityWarning}

	data, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"default_severity":"warning"`)

	var decoded core.CheckInfo
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, core.SeverityWarning, decoded.DefaultSeverity)

	var bad core.Severity
	assert.Error(t, bad.UnmarshalText([]byte("fatal")))
}
