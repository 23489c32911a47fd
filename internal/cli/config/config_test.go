package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Nil(t, cfg.Lint)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())

	s := cfg.GetServeConfig()
	assert.Equal(t, DefaultAddr, s.Addr)
	assert.Equal(t, DefaultConcurrency, s.Concurrency)
	assert.Equal(t, DefaultShutdownTimeout, s.ShutdownTimeout)
	require.NotNil(t, cfg.Repl)
	assert.Equal(t, DefaultHistoryFile, cfg.Repl.HistoryFile)
}

func TestLoadConfig_FileSearchUpward(t *testing.T) {
	ResetConfig()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	writeFile(t, filepath.Join(root, "leapprose.yaml"), `
output: json
lint:
  checks:
    typography.symbols: false
  max_errors: 3
serve:
  addr: ":9000"
  shutdown_timeout: 2s
`)
	nested := filepath.Join(root, "docs", "chapters")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, "leapprose.yaml"), GetConfigFileUsed())
	assert.Equal(t, "json", cfg.OutputFormat)
	require.NotNil(t, cfg.Lint)
	assert.Equal(t, false, cfg.Lint.Checks["typography.symbols"])
	assert.Equal(t, 3, cfg.Lint.MaxErrors)

	s := cfg.GetServeConfig()
	assert.Equal(t, ":9000", s.Addr)
	assert.Equal(t, 2*time.Second, s.ShutdownTimeout)
	assert.Equal(t, DefaultConcurrency, s.Concurrency)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	chdir(t, t.TempDir())
	path := filepath.Join(dir, "custom.yml")
	writeFile(t, path, "verbose: true\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, path, GetConfigFileUsed())

	_, err = LoadConfig(filepath.Join(dir, "missing.yml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "leapprose.yaml"), `
output: markdown
lint:
  max_errors: 1
serve:
  addr: ":7000"
`)
	chdir(t, dir)
	t.Setenv("LEAPPROSE_OUTPUT", "text")
	t.Setenv("LEAPPROSE_LINT__MAX_ERRORS", "2")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.StringP("output", "o", "", "")
	flags.String("addr", "", "")
	flags.Int("max-errors", 0, "")
	flags.StringSlice("disable", nil, "")
	require.NoError(t, flags.Parse([]string{"--addr", ":8000", "--disable", "cliches"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.OutputFormat, "env beats file")
	assert.Equal(t, 2, cfg.Lint.MaxErrors, "env beats file")
	assert.Equal(t, ":8000", cfg.GetServeConfig().Addr, "flag beats file")

	require.NoError(t, flags.Parse([]string{"--output", "json", "--max-errors", "4"}))
	cfg, err = LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.OutputFormat, "flag beats env")
	assert.Equal(t, 4, cfg.Lint.MaxErrors, "flag beats env")
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"output", "output: xml\n", `invalid output format "xml"`},
		{"severity", "lint:\n  severity:\n    cliches: loud\n", `unknown severity "loud"`},
		{"concurrency", "serve:\n  concurrency: -1\n", "serve.concurrency must be >= 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "leapprose.yaml"), tt.body)
			chdir(t, dir)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LEAPPROSE_OUTPUT", "output"},
		{"LEAPPROSE_SERVE__ADDR", "serve/addr"},
		{"LEAPPROSE_LINT__MAX_ERRORS", "lint/max_errors"},
		{"LEAPPROSE_LINT__CHECK_QUOTES", "lint/check_quotes"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".hist"), expandHome("~/.hist"))
	assert.Equal(t, "rel/.hist", expandHome("rel/.hist"))
	assert.Equal(t, "/abs/.hist", expandHome("/abs/.hist"))
}

func TestGetLogger_Fallback(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))
}

func TestFindProjectRootUpward_Limit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "leapprose.yml"), "")

	deep := root
	for i := 0; i < maxUpwardSearchLevels; i++ {
		deep = filepath.Join(deep, "d")
	}
	require.NoError(t, os.MkdirAll(deep, 0o755))

	assert.Empty(t, findProjectRootUpward(deep))
	assert.Equal(t, root, findProjectRootUpward(filepath.Join(root, "d")))
}
