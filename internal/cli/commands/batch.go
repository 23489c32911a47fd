package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapprose/internal/cli/output"
	"github.com/leapstack-labs/leapprose/internal/textio"
	"github.com/leapstack-labs/leapprose/pkg/lint"
)

// BatchOptions holds options for the batch command.
type BatchOptions struct {
	Input       string // JSON file; "-" or empty for stdin
	Format      string // Output format
	Concurrency int    // Parallel lint workers; 0 uses the configured value
}

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	opts := &BatchOptions{}
	cmd := &cobra.Command{
		Use:   "batch [file.json]",
		Short: "Lint a JSON array of texts",
		Long: `Lint many texts in one call.

Input is a JSON array of strings, read from the given file or stdin.
Texts are linted in parallel. A text over the size limit fails on its
own; the others are still linted. The whole batch is rejected when it
holds more texts than the batch limit.

Each run gets a run ID, included in JSON output and in logs.`,
		Example: `  # Lint texts from a file
  leapprose batch texts.json

  # From a pipe, as JSON
  echo '["This is very good.", "A free gift."]' | leapprose batch -f json

  # Use 16 workers
  leapprose batch --concurrency 16 texts.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Input = args[0]
			}
			return runBatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Parallel lint workers (default from serve.concurrency)")

	return cmd
}

func runBatch(cmd *cobra.Command, opts *BatchOptions) error {
	cmdCtx, err := NewCommandContext(cmd, opts.Format)
	if err != nil {
		return err
	}
	eng := cmdCtx.Engine
	r := cmdCtx.Renderer

	payload, err := readBatchInput(cmd, opts.Input)
	if err != nil {
		return err
	}
	texts, err := lint.ParseBatch(payload)
	if err != nil {
		return err
	}

	workers := opts.Concurrency
	if workers <= 0 {
		workers = cmdCtx.Cfg.GetServeConfig().Concurrency
	}

	runID := uuid.NewString()
	logger := cmdCtx.Logger.With("run_id", runID)
	logger.Debug("batch started", "texts", len(texts), "workers", workers)

	start := time.Now()
	items, err := eng.LintBatchConcurrent(cmd.Context(), texts, workers)
	if err != nil {
		return err
	}

	results := make([]output.LintFileResult, len(items))
	for i, item := range items {
		res := output.LintFileResult{Path: "#" + strconv.Itoa(i), Findings: item.Findings}
		if item.Err != nil {
			res = output.LintFileResult{Path: res.Path, Error: item.Err.Error()}
		}
		results[i] = res
	}
	summary := output.Summarize(results)
	logger.Info("batch finished",
		"texts", len(texts),
		"findings", summary.TotalIssues,
		"failed", summary.FilesFailed,
		"duration", time.Since(start),
	)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.LintOutput{RunID: runID, Summary: summary, Files: results})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Batch "+runID))
		r.Println("")
		r.Println(batchTable(results).RenderMarkdown())
	default:
		r.Println(r.Styles().Header1.Render("Batch " + runID))
		r.Println(batchTable(results).Render())
	}
	r.Println("")
	r.Println(fmt.Sprintf("%s in %s, %d failed", output.Plural(summary.TotalIssues, "finding"),
		output.Plural(summary.FilesAnalyzed, "text"), summary.FilesFailed))
	return nil
}

func readBatchInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == textio.StdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// batchTable summarizes each text of a batch, one row per text.
func batchTable(results []output.LintFileResult) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Text", "Findings", "Errors", "Warnings", "Suggestions", "Status"})

	for _, res := range results {
		if res.Error != "" {
			t.AppendRow(table.Row{res.Path, "-", "-", "-", "-", res.Error})
			continue
		}
		s := output.Summarize([]output.LintFileResult{res})
		status := "ok"
		if s.TotalIssues > 0 {
			status = "issues"
		}
		t.AppendRow(table.Row{res.Path, s.TotalIssues, s.Errors, s.Warnings, s.Suggestions, status})
	}
	return t
}
