package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapprose/internal/cli/output"
)

// NewWarmCommand creates the warm command.
func NewWarmCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Compile every check ahead of time",
		Long: `Compile the matcher of every check in the catalog and report how
long it took. Matchers are otherwise compiled on first use.

A check that fails to compile is skipped; run "leapprose checks --validate"
to see why.`,
		Example: `  # Compile all checks
  leapprose warm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd, format)
			if err != nil {
				return err
			}
			r := cmdCtx.Renderer

			start := time.Now()
			n := cmdCtx.Engine.WarmAll()
			elapsed := time.Since(start)
			cmdCtx.Logger.Debug("matchers compiled", "count", n, "duration", elapsed)

			total := cmdCtx.Engine.Registry().Len()
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(map[string]any{
					"compiled":    n,
					"checks":      total,
					"duration_ms": elapsed.Milliseconds(),
				})
			}

			r.Success(fmt.Sprintf("Compiled %d of %s in %s", n, output.Plural(total, "check"), elapsed.Round(time.Millisecond)))
			if n < total {
				r.Warning(fmt.Sprintf("%d failed to compile", total-n))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, markdown, json")
	return cmd
}
