package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapprose/internal/cli/config"
)

func TestRunREPL(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		want       []string
		notWant    []string
		wantErrOut []string
	}{
		{
			name:  "lints each line",
			input: "This is very good.\nMeet me at the cafe.\n",
			want:  []string{"weasel_words.very", "typography.diacritics.cafe"},
		},
		{
			name:    "disable then lint",
			input:   ".disable weasel_words\nThis is very good.\n",
			notWant: []string{"weasel_words.very"},
		},
		{
			name:  "reset restores checks",
			input: ".disable weasel_words\n.reset\nThis is very good.\n",
			want:  []string{"weasel_words.very"},
		},
		{
			name:  "severity override",
			input: ".severity weasel_words error\nThis is very good.\n",
			want:  []string{"**error** `weasel_words.very`"},
		},
		{
			name:    "enable a check inside a disabled category",
			input:   ".disable typography\n.enable typography.diacritics.cafe\nMeet me at the cafe. Wait... what?\n",
			want:    []string{"typography.diacritics.cafe"},
			notWant: []string{"typography.symbols.ellipsis"},
		},
		{
			name:  "config lists session changes",
			input: ".disable cliches\n.severity typography suggestion\n.config\n",
			want:  []string{"disable cliches", "severity typography suggestion"},
		},
		{
			name:    "quit stops reading",
			input:   ".quit\nThis is very good.\n",
			notWant: []string{"weasel_words.very"},
		},
		{
			name:       "unknown key",
			input:      ".disable nope\n",
			wantErrOut: []string{`unknown check or category "nope"`},
		},
		{
			name:       "bad severity",
			input:      ".severity weasel_words loud\n",
			wantErrOut: []string{`invalid severity "loud"`},
		},
		{
			name:       "unknown command",
			input:      ".frobnicate\n",
			wantErrOut: []string{"Unknown command: .frobnicate"},
		},
		{
			name:  "file",
			input: ".file docs/weasel.md\n",
			want:  []string{"## docs/weasel.md", "weasel_words.very"},
		},
		{
			name:    "checks by prefix",
			input:   ".checks weasel_words\n",
			want:    []string{"weasel_words.very"},
			notWant: []string{"typography."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := runInProject(t, nil, NewReplCommand(), tt.input, "--format", "markdown")
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, out, notWant)
			}
			for _, want := range tt.wantErrOut {
				assert.Contains(t, errOut, want)
			}
		})
	}
}

func TestREPLHistoryFile(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want string
	}{
		{
			name: "default in project root",
			cfg:  &config.Config{ProjectRoot: "/work"},
			want: filepath.Join("/work", config.DefaultHistoryFile),
		},
		{
			name: "relative to project root",
			cfg:  &config.Config{ProjectRoot: "/work", Repl: &config.ReplConfig{HistoryFile: "hist"}},
			want: filepath.Join("/work", "hist"),
		},
		{
			name: "absolute",
			cfg:  &config.Config{ProjectRoot: "/work", Repl: &config.ReplConfig{HistoryFile: "/tmp/hist"}},
			want: "/tmp/hist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &replSession{project: tt.cfg}
			assert.Equal(t, tt.want, s.historyFile())
		})
	}
}
