package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapprose/internal/cli/output"
	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/lint"
	"github.com/leapstack-labs/leapprose/pkg/lint/checks"
)

// ChecksOptions holds options for the checks command.
type ChecksOptions struct {
	Category string // Filter by category
	Active   bool   // Only checks enabled by the project configuration
	Validate bool   // Compile every check and report failures
	Format   string // Output format
}

// checksView is the JSON shape of a listed check.
type checksView struct {
	core.CheckInfo
	Active   bool          `json:"active"`
	Severity core.Severity `json:"severity"`
}

// NewChecksCommand creates the checks command.
func NewChecksCommand() *cobra.Command {
	opts := &ChecksOptions{}
	cmd := &cobra.Command{
		Use:   "checks [check-id]",
		Short: "List available checks",
		Long: `List the checks in the catalog, grouped by category.

Each check shows its effective severity and whether the project
configuration enables it. Pass a check ID to see its details.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # List all checks
  leapprose checks

  # Show one check
  leapprose checks weasel_words.very

  # List typography checks
  leapprose checks --category typography

  # Only checks enabled by leapprose.yaml
  leapprose checks --active

  # Compile every check
  leapprose checks --validate`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd, opts.Format)
			if err != nil {
				return err
			}
			switch {
			case opts.Validate:
				return validateChecks(cmdCtx)
			case len(args) > 0:
				return showCheck(cmdCtx, args[0])
			default:
				return listChecks(cmdCtx, opts)
			}
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Filter by category")
	cmd.Flags().BoolVar(&opts.Active, "active", false, "Only list checks enabled by the configuration")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "Compile every check and report failures")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return checks.Default().Categories(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func views(eng *lint.Engine, opts *ChecksOptions) []checksView {
	var out []checksView
	active := eng.Active()
	for _, c := range eng.Registry().All() {
		if opts.Category != "" && c.Category() != opts.Category {
			continue
		}
		v := checksView{CheckInfo: c.Info(), Severity: c.Severity}
		if sev, ok := active.Severity(c.ID); ok {
			v.Active, v.Severity = true, sev
		}
		if opts.Active && !v.Active {
			continue
		}
		out = append(out, v)
	}
	return out
}

func listChecks(cmdCtx *CommandContext, opts *ChecksOptions) error {
	r := cmdCtx.Renderer
	if opts.Category != "" {
		if len(cmdCtx.Engine.Registry().ByCategory(opts.Category)) == 0 {
			return fmt.Errorf("unknown category %q", opts.Category)
		}
	}
	list := views(cmdCtx.Engine, opts)

	if r.EffectiveMode() == output.ModeJSON {
		if list == nil {
			list = []checksView{}
		}
		return r.JSON(list)
	}

	titleCaser := cases.Title(language.English)
	markdown := r.EffectiveMode() == output.ModeMarkdown
	styles := r.Styles()

	for _, group := range groupByCategory(list) {
		title := titleCaser.String(strings.ReplaceAll(group[0].Category, "_", " "))
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"ID", "Severity", "Kind", "Active", "Message"})
		for _, v := range group {
			active := "yes"
			if !v.Active {
				active = "no"
			}
			t.AppendRow(table.Row{v.ID, v.Severity, v.Kind, active, v.Message})
		}

		if markdown {
			r.Println(output.FormatHeader(2, fmt.Sprintf("%s (%s)", title, output.Plural(len(group), "check"))))
			r.Println("")
			r.Println(t.RenderMarkdown())
		} else {
			r.Println(styles.Header2.Render(title) + " " + styles.Muted.Render(output.Plural(len(group), "check")))
			r.Println(t.Render())
		}
		r.Println("")
	}

	r.Muted(fmt.Sprintf("%s listed, %d active", output.Plural(len(list), "check"), cmdCtx.Engine.Active().Len()))
	return nil
}

// groupByCategory splits views into runs of one category, in registry order.
func groupByCategory(list []checksView) [][]checksView {
	var groups [][]checksView
	for i, v := range list {
		if i == 0 || v.Category != list[i-1].Category {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], v)
	}
	return groups
}

func showCheck(cmdCtx *CommandContext, id string) error {
	r := cmdCtx.Renderer
	c, ok := cmdCtx.Engine.Registry().Find(id)
	if !ok {
		return fmt.Errorf("unknown check %q", id)
	}

	v := checksView{CheckInfo: c.Info(), Severity: c.Severity}
	if sev, ok := cmdCtx.Engine.Active().Severity(id); ok {
		v.Active, v.Severity = true, sev
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(v)
	}

	r.Header(1, v.ID)
	rows := [][2]string{
		{"Category", v.Category},
		{"Kind", v.Kind},
		{"Severity", v.Severity.String()},
		{"Default severity", v.DefaultSeverity.String()},
		{"Active", fmt.Sprintf("%t", v.Active)},
		{"Message", v.Message},
	}
	if v.Replacement != "" {
		rows = append(rows, [2]string{"Replacement", v.Replacement})
	}
	if v.AllowQuotes {
		rows = append(rows, [2]string{"Allow quotes", "true"})
	}
	rows = append(rows, [2]string{"Docs", v.DocURL})

	for _, row := range rows {
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Println(output.FormatKeyValue(row[0], row[1]))
		} else {
			r.Println(r.Styles().Bold.Render(fmt.Sprintf("%-17s", row[0]+":")) + " " + row[1])
		}
	}
	return nil
}

func validateChecks(cmdCtx *CommandContext) error {
	r := cmdCtx.Renderer
	reg := cmdCtx.Engine.Registry()
	errs := reg.Validate()

	if r.EffectiveMode() == output.ModeJSON {
		msgs := make([]string, len(errs))
		for i, err := range errs {
			msgs[i] = err.Error()
		}
		if err := r.JSON(map[string]any{"checks": reg.Len(), "errors": msgs}); err != nil {
			return err
		}
	} else {
		for _, err := range errs {
			r.Error(err.Error())
		}
		if len(errs) == 0 {
			r.Success(fmt.Sprintf("All %s compile", output.Plural(reg.Len(), "check")))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s failed to compile: %w", output.Plural(len(errs), "check"), errors.Join(errs...))
	}
	return nil
}
