package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/leapprose/internal/cli/config"
	"github.com/leapstack-labs/leapprose/internal/cli/output"
	intconfig "github.com/leapstack-labs/leapprose/internal/config"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the lint configuration after merging defaults, the config
file, LEAPPROSE_* environment variables, and flags.

The output is valid leapprose.yaml and can be saved as a starting point.`,
		Example: `  # Show the configuration in use
  leapprose config

  # As JSON
  leapprose config -f json

  # Start a config file from the defaults
  leapprose config -f text > leapprose.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContextWithoutEngine(cmd, format)
			if err != nil {
				return err
			}
			return showConfig(cmdCtx)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}

func showConfig(cmdCtx *CommandContext) error {
	r := cmdCtx.Renderer
	pc := cmdCtx.Cfg.Project()
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dump, err := intconfig.Dump(pc)
	if err != nil {
		return err
	}
	file := config.GetConfigFileUsed()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		var body map[string]any
		if err := yaml.Unmarshal(dump, &body); err != nil {
			return fmt.Errorf("failed to decode config: %w", err)
		}
		if body == nil {
			body = map[string]any{}
		}
		return r.JSON(map[string]any{
			"config_file":  file,
			"project_root": cmdCtx.Cfg.ProjectRoot,
			"config":       body,
		})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Configuration"))
		r.Println("")
		r.Println(output.FormatKeyValue("Config file", orNone(file)))
		r.Println(output.FormatKeyValue("Project root", cmdCtx.Cfg.ProjectRoot))
		r.Println("")
		r.Println(output.FormatCode("yaml", string(dump)))
	default:
		r.Println(r.Styles().Muted.Render("# config file: " + orNone(file)))
		r.Printf("%s", dump)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
