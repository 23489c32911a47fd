// Package main provides tests for the LeapProse CLI.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/leapprose/internal/cli"
	"github.com/leapstack-labs/leapprose/internal/cli/config"
)

func testdataDir(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return filepath.Join(wd, "..", "..", "testdata")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	output, err := execute(t, "version")
	if err != nil {
		t.Errorf("version command error = %v", err)
	}
	if !strings.Contains(output, "LeapProse") {
		t.Errorf("version output should contain 'LeapProse', got: %s", output)
	}
}

func TestHelpCommand(t *testing.T) {
	output, err := execute(t, "--help")
	if err != nil {
		t.Errorf("help command error = %v", err)
	}

	expectedCommands := []string{"lint", "batch", "checks", "warm", "config", "repl", "serve", "lsp"}
	for _, expected := range expectedCommands {
		if !strings.Contains(output, expected) {
			t.Errorf("help output should contain '%s', got: %s", expected, output)
		}
	}
}

func TestLintCleanFile(t *testing.T) {
	td := testdataDir(t)
	output, err := execute(t, "lint", filepath.Join(td, "prose", "clean.md"))
	if err != nil {
		t.Errorf("lint command error = %v, output: %s", err, output)
	}
	if !strings.Contains(output, "No issues found in 1 file") {
		t.Errorf("lint output should report no issues, got: %s", output)
	}
}

func TestLintFileWithIssues(t *testing.T) {
	td := testdataDir(t)
	output, err := execute(t, "lint", filepath.Join(td, "prose", "issues.md"))
	if err == nil {
		t.Fatalf("lint command should fail when findings remain, output: %s", output)
	}
	for _, want := range []string{"weasel_words.very", "typography.diacritics.cafe", "**Summary:**"} {
		if !strings.Contains(output, want) {
			t.Errorf("lint output should contain %q, got: %s", want, output)
		}
	}
}

func TestLintJSON(t *testing.T) {
	td := testdataDir(t)
	output, err := execute(t, "lint", "--output", "json", "--disable", "typography", filepath.Join(td, "prose"))
	if err == nil {
		t.Fatalf("lint command should fail when findings remain")
	}

	var result struct {
		Summary struct {
			FilesAnalyzed int `json:"files_analyzed"`
		} `json:"summary"`
		Files []struct {
			Path     string `json:"path"`
			Findings []struct {
				Check string `json:"check"`
			} `json:"findings"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("lint output should be JSON: %v\n%s", err, output)
	}
	if result.Summary.FilesAnalyzed != 3 {
		t.Errorf("files analyzed = %d, want 3", result.Summary.FilesAnalyzed)
	}
	for _, f := range result.Files {
		for _, finding := range f.Findings {
			if strings.HasPrefix(finding.Check, "typography.") {
				t.Errorf("disabled check %s reported in %s", finding.Check, f.Path)
			}
		}
	}
}

func TestBatchCommand(t *testing.T) {
	td := testdataDir(t)
	output, err := execute(t, "batch", "--output", "json", filepath.Join(td, "batch.json"))
	if err != nil {
		t.Fatalf("batch command error = %v", err)
	}

	var result struct {
		RunID string `json:"run_id"`
		Files []struct {
			Path string `json:"path"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("batch output should be JSON: %v\n%s", err, output)
	}
	if result.RunID == "" {
		t.Error("batch output should carry a run ID")
	}
	if len(result.Files) != 3 {
		t.Errorf("batch results = %d, want 3", len(result.Files))
	}
}

func TestChecksCommand(t *testing.T) {
	output, err := execute(t, "checks", "weasel_words.very")
	if err != nil {
		t.Errorf("checks command error = %v", err)
	}
	if !strings.Contains(output, "weasel_words.very") {
		t.Errorf("checks output should contain the check ID, got: %s", output)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "frobnicate")
	if err == nil {
		t.Error("unknown command should fail")
	}
}
