package lsp

import (
	"errors"

	"github.com/leapstack-labs/leapprose/internal/textio"
	"github.com/leapstack-labs/leapprose/pkg/core"
	"github.com/leapstack-labs/leapprose/pkg/lint"
)

// publishDiagnostics lints the document and publishes its findings.
func (s *Server) publishDiagnostics(uri string) {
	doc := s.documents.Get(uri)
	if doc == nil {
		return
	}

	text := doc.Content
	if textio.IsHTML(URIToPath(uri)) {
		text = textio.MaskHTML(text)
	}

	findings, err := s.engine.Lint(text)
	if err != nil {
		var limitErr *lint.LimitError
		if errors.As(err, &limitErr) {
			s.sendNotification("window/showMessage", &ShowMessageParams{
				Type:    MessageTypeWarning,
				Message: "Not linting " + URIToPath(uri) + ": " + err.Error(),
			})
		} else {
			s.logger.Error("Lint failed", "uri", uri, "error", err)
		}
		findings = nil
	}

	diagnostics := findingsToDiagnostics(doc, findings)
	s.documents.SetDiagnostics(uri, doc.Version, diagnostics)

	version := doc.Version
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// findingsToDiagnostics converts findings to LSP diagnostics.
// Finding offsets are codepoints; diagnostic ranges are UTF-16.
func findingsToDiagnostics(doc *Document, findings []lint.Finding) []Diagnostic {
	diagnostics := make([]Diagnostic, 0, len(findings))
	if len(findings) == 0 {
		return diagnostics
	}

	offsets := make([]int, 0, 2*len(findings))
	for _, f := range findings {
		offsets = append(offsets, f.Start, f.End)
	}
	positions := doc.Positions(offsets)

	for i, f := range findings {
		diag := Diagnostic{
			Range:    Range{Start: positions[2*i], End: positions[2*i+1]},
			Severity: toDiagnosticSeverity(f.Severity),
			Code:     f.Check,
			Source:   serverName,
			Message:  f.Message,
		}
		if url := lint.BuildDocURL(f.Check); url != "" {
			diag.CodeDescription = &CodeDescription{Href: url}
		}
		if f.Replacement != "" {
			diag.Data = &DiagnosticData{Replacement: f.Replacement}
		}
		diagnostics = append(diagnostics, diag)
	}
	return diagnostics
}

// toDiagnosticSeverity maps finding severity to LSP severity.
func toDiagnosticSeverity(sev core.Severity) DiagnosticSeverity {
	switch sev {
	case core.SeverityError:
		return DiagnosticSeverityError
	case core.SeverityWarning:
		return DiagnosticSeverityWarning
	default:
		return DiagnosticSeverityInformation
	}
}
