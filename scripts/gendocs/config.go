package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	cliconfig "github.com/leapstack-labs/leapprose/internal/cli/config"
	intconfig "github.com/leapstack-labs/leapprose/internal/config"
	"github.com/leapstack-labs/leapprose/pkg/lint"
)

// configKey documents one configuration key.
type configKey struct {
	key  string
	def  string
	desc string
}

func configKeys() []configKey {
	limits := lint.DefaultLimits()
	return []configKey{
		{"output", cliconfig.DefaultOutput, "Output format: auto, text, markdown, json"},
		{"verbose", "false", "Enable debug logging"},
		{"extensions", "", "File extensions linted when walking directories"},
		{"lint.checks", "", "Map of check ID or prefix to true/false"},
		{"lint.meta", "", "Map of meta flag to true/false"},
		{"lint.severity", "", "Map of check ID or prefix to error, warning, suggestion"},
		{"lint.check_quotes", "true", "Report matches inside quotations"},
		{"lint.max_errors", "0", "Maximum findings per text, 0 for unlimited"},
		{"limits.max_text_bytes", strconv.Itoa(limits.MaxTextBytes), "Largest text accepted, in bytes"},
		{"limits.max_batch_items", strconv.Itoa(limits.MaxBatchItems), "Most texts accepted in one batch"},
		{"serve.addr", cliconfig.DefaultAddr, "Server listen address"},
		{"serve.watch", "false", "Reload the configuration when the config file changes"},
		{"serve.concurrency", strconv.Itoa(cliconfig.DefaultConcurrency), "Parallel lint workers for batch requests"},
		{"serve.shutdown_timeout", cliconfig.DefaultShutdownTimeout.String(), "Time allowed for in-flight requests on shutdown"},
		{"repl.history_file", cliconfig.DefaultHistoryFile, "REPL history file, relative to the project root"},
	}
}

// generateConfigDocs writes the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "Reference for leapprose.yaml")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("LeapProse reads %s (or %s) from the current directory or the nearest parent that has one. "+
		"Pass %s to use another file.",
		InlineCode(intconfig.ConfigFileName), InlineCode(intconfig.ConfigFileNameAlt), InlineCode("--config")))

	w.Header(2, "Precedence")
	w.BulletList([]string{
		"Command-line flags",
		fmt.Sprintf("Environment variables (%s prefix, %s between nested keys)", InlineCode(cliconfig.EnvPrefix), InlineCode("__")),
		"The config file",
		"Built-in defaults",
	})

	w.Header(2, "Keys")
	var rows [][]string
	for _, k := range configKeys() {
		def := k.def
		if def != "" {
			def = InlineCode(def)
		}
		rows = append(rows, []string{InlineCode(k.key), def, k.desc})
	}
	w.Table([]string{"Key", "Default", "Description"}, rows)

	w.Header(2, "Check Keys")
	w.Paragraph("Keys under " + InlineCode("lint.checks") + " and " + InlineCode("lint.severity") +
		" match a check ID or any dotted prefix of one. The longest matching key wins, so a single check can be re-enabled inside a disabled category.")
	w.Paragraph("A meta flag set to false disables its categories even when " + InlineCode("lint.checks") + " enables them.")

	w.Header(2, "Example")
	w.CodeBlock("yaml", `output: auto
extensions: [".md", ".txt", ".html"]

lint:
  checks:
    typography: false
    typography.symbols.ellipsis: true
  meta:
    mondegreens: false
  severity:
    weasel_words: suggestion
  check_quotes: false
  max_errors: 100

limits:
  max_text_bytes: 1048576

serve:
  addr: 127.0.0.1:8484
  watch: true`)

	w.Header(2, "Inspecting the Effective Configuration")
	w.CodeBlock("bash", "leapprose config\nleapprose config -f json")

	return os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600)
}
