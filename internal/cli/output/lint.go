package output

import (
	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/lint"
)

// LintOutput is the JSON document written by the lint and batch commands.
type LintOutput struct {
	RunID   string           `json:"run_id,omitempty"`
	Summary LintSummary      `json:"summary"`
	Files   []LintFileResult `json:"files"`
}

// LintSummary counts findings by severity.
type LintSummary struct {
	FilesAnalyzed   int `json:"files_analyzed"`
	FilesWithIssues int `json:"files_with_issues"`
	FilesFailed     int `json:"files_failed,omitempty"`
	TotalIssues     int `json:"total_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Suggestions     int `json:"suggestions"`
}

// LintFileResult holds the findings for one input.
type LintFileResult struct {
	Path     string         `json:"path"`
	Error    string         `json:"error,omitempty"`
	Findings []lint.Finding `json:"findings"`
}

// Add counts one result into the summary.
func (s *LintSummary) Add(res LintFileResult) {
	s.FilesAnalyzed++
	if res.Error != "" {
		s.FilesFailed++
		return
	}
	if len(res.Findings) > 0 {
		s.FilesWithIssues++
	}
	for _, f := range res.Findings {
		s.TotalIssues++
		switch f.Severity {
		case core.SeverityError:
			s.Errors++
		case core.SeverityWarning:
			s.Warnings++
		case core.SeveritySuggestion:
			s.Suggestions++
		}
	}
}

// Summarize builds the summary for a set of results.
func Summarize(results []LintFileResult) LintSummary {
	var s LintSummary
	for _, res := range results {
		s.Add(res)
	}
	return s
}
