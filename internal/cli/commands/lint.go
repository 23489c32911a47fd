package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapprose/internal/cli/output"
	"github.com/leapstack-labs/leapprose/internal/textio"
	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/lint"
	"github.com/leapstack-labs/leapprose/pkg/lint/checks"
)

// errLintIssues makes the process exit non-zero when findings remain.
var errLintIssues = errors.New("lint issues found")

// LintOptions holds options for the lint command.
type LintOptions struct {
	Paths    []string // Files or directories; "-" is stdin
	Text     string   // Inline text instead of files
	Format   string   // Output format: text, markdown, json
	Disable  []string // Check IDs or prefixes to disable
	Checks   []string // Run only these check IDs or prefixes
	Severity string   // Minimum severity: error, warning, suggestion
	Watch    bool     // Re-lint files when they change
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Lint prose files",
		Long: `Check prose for style and usage issues.

Files are linted as given; directories are searched recursively for
prose files (by default .md, .markdown, .txt, .rst, .adoc, .tex, .html,
and .htm; set "extensions" in leapprose.yaml to change this). With no
paths, text is read from stdin. Markup in HTML files is ignored.

Checks are configured in leapprose.yaml. --disable and --check apply
on top of the project configuration.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Lint every prose file under docs/
  leapprose lint docs

  # Lint text from a pipe
  echo "This is very unique." | leapprose lint

  # Lint inline text
  leapprose lint --text "We utilize a free gift."

  # Skip weasel words and clichés
  leapprose lint --disable weasel_words,cliches README.md

  # Only report errors
  leapprose lint --severity error docs

  # Re-lint on save
  leapprose lint --watch docs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			return runLint(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Text, "text", "", "Lint this text instead of files")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Check IDs or prefixes to disable")
	cmd.Flags().StringSliceVar(&opts.Checks, "check", nil, "Run only these check IDs or prefixes")
	cmd.Flags().StringVar(&opts.Severity, "severity", "suggestion", "Minimum severity: error, warning, suggestion")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint files when they change")
	cmd.Flags().Int("max-errors", 0, "Report at most this many findings per file (0 for no limit)")
	cmd.Flags().Int("max-text-bytes", 0, "Reject files larger than this many bytes (0 for the default)")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "suggestion"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runLint(cmd *cobra.Command, opts *LintOptions) error {
	threshold, ok := core.ParseSeverity(opts.Severity)
	if !ok {
		return fmt.Errorf("invalid severity %q: expected error, warning, or suggestion", opts.Severity)
	}
	if opts.Watch && opts.Text != "" {
		return fmt.Errorf("--watch cannot be used with --text")
	}

	cmdCtx, err := NewCommandContext(cmd, opts.Format,
		disableKeys(opts.Disable),
		onlyKeys(checks.Default(), opts.Checks),
	)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	if opts.Text != "" {
		res := lintText(cmdCtx.Engine, "<text>", opts.Text, threshold)
		return reportLint(r, []output.LintFileResult{res})
	}

	paths := opts.Paths
	if len(paths) == 0 {
		paths = []string{textio.StdinName}
	}
	files, err := textio.Collect(paths, cmdCtx.Cfg.Extensions)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		r.Warning("no prose files found")
		return nil
	}
	if opts.Watch && slices.Contains(files, textio.StdinName) {
		return fmt.Errorf("--watch needs file or directory paths")
	}

	limit := cmdCtx.Engine.Limits().MaxTextBytes
	results := make([]output.LintFileResult, 0, len(files))
	for _, path := range files {
		if path == textio.StdinName {
			results = append(results, lintStdin(cmdCtx.Engine, cmd.InOrStdin(), limit, threshold))
			continue
		}
		results = append(results, lintFile(cmdCtx.Engine, path, limit, threshold))
	}
	reportErr := reportLint(r, results)
	if !opts.Watch {
		return reportErr
	}

	r.Muted(fmt.Sprintf("Watching %s for changes. Press Ctrl+C to stop.", output.Plural(len(files), "file")))
	return watchFiles(cmd.Context(), files, cmdCtx.Logger, func(path string) {
		res := lintFile(cmdCtx.Engine, path, limit, threshold)
		_ = reportLint(r, []output.LintFileResult{res})
	})
}

// lintFile reads and lints one file. Read and limit failures are recorded
// on the result instead of stopping the run.
func lintFile(eng *lint.Engine, path string, limit int, threshold core.Severity) output.LintFileResult {
	text, err := textio.ReadFile(path, limit)
	if err != nil {
		if errors.Is(err, textio.ErrTooLarge) {
			return output.LintFileResult{Path: path, Error: fmt.Sprintf("text too large (max %d bytes)", limit)}
		}
		return output.LintFileResult{Path: path, Error: err.Error()}
	}
	return lintText(eng, path, text, threshold)
}

// lintStdin lints everything read from r, reported as "<stdin>".
func lintStdin(eng *lint.Engine, r io.Reader, limit int, threshold core.Severity) output.LintFileResult {
	const name = "<stdin>"
	text, err := textio.Read(r, limit)
	if err != nil {
		if errors.Is(err, textio.ErrTooLarge) {
			return output.LintFileResult{Path: name, Error: fmt.Sprintf("text too large (max %d bytes)", limit)}
		}
		return output.LintFileResult{Path: name, Error: err.Error()}
	}
	return lintText(eng, name, text, threshold)
}

func lintText(eng *lint.Engine, name, text string, threshold core.Severity) output.LintFileResult {
	findings, err := eng.Lint(text)
	if err != nil {
		return output.LintFileResult{Path: name, Error: err.Error()}
	}
	return output.LintFileResult{Path: name, Findings: filterBySeverity(findings, threshold)}
}

// filterBySeverity keeps findings at least as severe as threshold.
func filterBySeverity(findings []lint.Finding, threshold core.Severity) []lint.Finding {
	filtered := findings[:0:0]
	for _, f := range findings {
		if f.Severity.AtLeast(threshold) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// reportLint renders results and returns errLintIssues when any finding
// remains, or an error naming the files that could not be linted.
func reportLint(r *output.Renderer, results []output.LintFileResult) error {
	summary := output.Summarize(results)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(output.LintOutput{Summary: summary, Files: results}); err != nil {
			return err
		}
	case output.ModeMarkdown:
		renderLintMarkdown(r, results, summary)
	default:
		renderLintText(r, results, summary)
	}

	switch {
	case summary.TotalIssues > 0:
		return errLintIssues
	case summary.FilesFailed > 0:
		return fmt.Errorf("failed to lint %s", output.Plural(summary.FilesFailed, "file"))
	}
	return nil
}

func renderLintText(r *output.Renderer, results []output.LintFileResult, summary output.LintSummary) {
	styles := r.Styles()
	for _, res := range results {
		if res.Error != "" {
			r.Error(fmt.Sprintf("%s: %s", res.Path, res.Error))
			continue
		}
		if len(res.Findings) == 0 {
			continue
		}

		r.Println(styles.Path.Render(res.Path))
		for _, f := range res.Findings {
			line := fmt.Sprintf("  %s  %s  %s  %s",
				styles.Muted.Render(fmt.Sprintf("%-7s", fmt.Sprintf("%d:%d", f.Line, f.Column))),
				styles.Severity(f.Severity).Render(fmt.Sprintf("%-10s", f.Severity)),
				styles.CheckID.Render(f.Check),
				f.Message,
			)
			if f.Replacement != "" {
				line += styles.Muted.Render(fmt.Sprintf(" (use %q)", f.Replacement))
			}
			r.Println(line)
		}
		r.Println("")
	}

	if summary.TotalIssues == 0 {
		if summary.FilesFailed == 0 {
			r.Success(fmt.Sprintf("No issues found in %s", output.Plural(summary.FilesAnalyzed, "file")))
		}
		return
	}
	r.Println(styles.Bold.Render("Summary: ") + summaryLine(summary))
}

func renderLintMarkdown(r *output.Renderer, results []output.LintFileResult, summary output.LintSummary) {
	for _, res := range results {
		if res.Error != "" {
			r.Println(output.FormatHeader(2, res.Path))
			r.Println("")
			r.Println("- **error:** " + res.Error)
			r.Println("")
			continue
		}
		if len(res.Findings) == 0 {
			continue
		}

		r.Println(output.FormatHeader(2, res.Path))
		r.Println("")
		for _, f := range res.Findings {
			line := fmt.Sprintf("- `%d:%d` **%s** `%s`: %s", f.Line, f.Column, f.Severity, f.Check, f.Message)
			if f.Replacement != "" {
				line += fmt.Sprintf(" (use %q)", f.Replacement)
			}
			r.Println(line)
		}
		r.Println("")
	}

	if summary.TotalIssues == 0 && summary.FilesFailed == 0 {
		r.Println(fmt.Sprintf("No issues found in %s.", output.Plural(summary.FilesAnalyzed, "file")))
		return
	}
	r.Println("**Summary:** " + summaryLine(summary))
}

// summaryLine formats "3 findings (1 error, 2 warnings) in 2 of 5 files".
func summaryLine(s output.LintSummary) string {
	var parts []string
	if s.Errors > 0 {
		parts = append(parts, output.Plural(s.Errors, "error"))
	}
	if s.Warnings > 0 {
		parts = append(parts, output.Plural(s.Warnings, "warning"))
	}
	if s.Suggestions > 0 {
		parts = append(parts, output.Plural(s.Suggestions, "suggestion"))
	}

	line := output.Plural(s.TotalIssues, "finding")
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	line += fmt.Sprintf(" in %d of %s", s.FilesWithIssues, output.Plural(s.FilesAnalyzed, "file"))
	if s.FilesFailed > 0 {
		line += fmt.Sprintf(", %d failed", s.FilesFailed)
	}
	return line
}
