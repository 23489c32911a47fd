package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapprose/internal/cli/config"
	"github.com/leapstack-labs/leapprose/internal/cli/output"
	"github.com/leapstack-labs/leapprose/pkg/lint"
	"github.com/leapstack-labs/leapprose/pkg/lint/checks"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *lint.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an engine built from the
// project configuration. format overrides the configured output mode when set.
func NewCommandContext(cmd *cobra.Command, format string, tweaks ...func(*lint.Config)) (*CommandContext, error) {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd, format)
	if err != nil {
		return nil, err
	}

	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger, tweaks...)
	if err != nil {
		return nil, err
	}
	cmdCtx.Engine = eng
	return cmdCtx, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that only read configuration.
func NewCommandContextWithoutEngine(cmd *cobra.Command, format string) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	if format == "" {
		format = cfg.OutputFormat
	}
	mode, err := output.ParseMode(format)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	wd, _ := os.Getwd()
	return &config.Config{
		Verbose:      os.Getenv(config.EnvPrefix+"VERBOSE") == "true",
		OutputFormat: os.Getenv(config.EnvPrefix + "OUTPUT"),
		ProjectRoot:  wd,
	}
}

// createEngine builds an engine over the default catalog. tweaks adjust the
// project's lint configuration before it is resolved.
func createEngine(cfg *config.Config, logger *slog.Logger, tweaks ...func(*lint.Config)) (*lint.Engine, error) {
	pc := cfg.Project()
	if err := pc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	lintCfg, err := pc.Lint.ToLint()
	if err != nil {
		return nil, err
	}
	for _, tweak := range tweaks {
		tweak(lintCfg)
	}

	return lint.NewEngine(checks.Default(),
		lint.WithConfig(lintCfg),
		lint.WithLimits(pc.Limits.ToLimits()),
		lint.WithLogger(logger),
	), nil
}

// disableKeys returns a tweak that disables each check ID or prefix.
func disableKeys(keys []string) func(*lint.Config) {
	return func(c *lint.Config) {
		for _, key := range keys {
			if key = strings.TrimSpace(key); key != "" {
				c.Disable(key)
			}
		}
	}
}

// onlyKeys returns a tweak that disables every category except the given
// check IDs or prefixes. An empty list changes nothing.
func onlyKeys(r *lint.Registry, keys []string) func(*lint.Config) {
	return func(c *lint.Config) {
		if len(keys) == 0 {
			return
		}
		for _, cat := range r.Categories() {
			c.Disable(cat)
		}
		for _, key := range keys {
			if key = strings.TrimSpace(key); key != "" {
				c.Enable(key)
			}
		}
	}
}
