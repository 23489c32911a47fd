package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/leapprose/pkg/lint"
	"github.com/leapstack-labs/leapprose/pkg/lint/checks"
)

var titleCaser = cases.Title(language.English)

// categoryTitle turns "weasel_words" into "Weasel Words".
func categoryTitle(category string) string {
	return titleCaser.String(strings.ReplaceAll(category, "_", " "))
}

// generateCheckDocs writes an index page and one page per category.
func generateCheckDocs(outDir string) error {
	log.Printf("Generating check docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reg := checks.Default()
	if errs := reg.Validate(); len(errs) > 0 {
		return fmt.Errorf("catalog does not compile: %v", errs[0])
	}

	if err := generateChecksIndex(reg, outDir); err != nil {
		return fmt.Errorf("failed to generate index: %w", err)
	}
	log.Printf("  Generated index.md")

	for _, category := range reg.Categories() {
		if err := generateCategoryPage(category, reg.ByCategory(category), outDir); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", category, err)
		}
		log.Printf("  Generated %s.md", category)
	}
	return nil
}

func generateChecksIndex(reg *lint.Registry, outDir string) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Checks", "Every check LeapProse runs, grouped by category")
	w.GeneratedMarker()

	w.Header(1, "Checks")
	w.Paragraph(fmt.Sprintf("LeapProse ships %d checks in %d categories. A check ID is its category followed by a dot and a name, for example %s.",
		reg.Len(), len(reg.Categories()), InlineCode("weasel_words.very")))

	w.Header(2, "Categories")
	var rows [][]string
	for _, category := range reg.Categories() {
		link := fmt.Sprintf("[%s](/checks/%s)", categoryTitle(category), category)
		rows = append(rows, []string{link, InlineCode(category), fmt.Sprintf("%d", len(reg.ByCategory(category)))})
	}
	w.Table([]string{"Category", "Prefix", "Checks"}, rows)

	if flags := reg.MetaFlags(); len(flags) > 0 {
		w.Header(2, "Meta Flags")
		w.Paragraph("A meta flag switches several categories at once. Set it to false under " +
			InlineCode("lint.meta") + " to disable every check in its categories.")
		var metaRows [][]string
		for _, f := range flags {
			cats := make([]string, len(f.Categories))
			for i, c := range f.Categories {
				cats[i] = InlineCode(c)
			}
			metaRows = append(metaRows, []string{InlineCode(f.Name), strings.Join(cats, ", ")})
		}
		w.Table([]string{"Flag", "Categories"}, metaRows)
	}

	w.Header(2, "Configuring Checks")
	w.CodeBlock("yaml", `lint:
  checks:
    typography: false          # a whole category
    weasel_words.very: false   # a single check
  severity:
    cliches: suggestion`)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func generateCategoryPage(category string, list []*lint.Check, outDir string) error {
	w := NewMarkdownWriter()
	title := categoryTitle(category)

	w.Frontmatter(title, fmt.Sprintf("Checks in the %s category", category))
	w.GeneratedMarker()

	w.Header(1, title)
	w.Paragraph(fmt.Sprintf("Disable the whole category with %s.", InlineCode(category+": false")))

	for _, c := range list {
		info := c.Info()
		w.Header(3, fmt.Sprintf("%s {#%s}", info.ID, lint.DocAnchor(info.ID)))
		w.Paragraph(cleanDescription(info.Message))

		items := []string{
			Bold("Severity:") + " " + info.DefaultSeverity.String(),
			Bold("Kind:") + " " + info.Kind,
		}
		if info.Replacement != "" {
			items = append(items, Bold("Replacement:")+" "+InlineCode(info.Replacement))
		}
		if info.AllowQuotes {
			items = append(items, Bold("Quotes:")+" reported inside quotations")
		}
		w.BulletList(items)
	}

	return os.WriteFile(filepath.Join(outDir, category+".md"), w.Bytes(), 0600)
}
