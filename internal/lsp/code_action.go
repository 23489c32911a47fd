package lsp

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/leapprose/pkg/core"
)

// handleCodeAction handles the textDocument/codeAction request.
func (s *Server) handleCodeAction(msg *JSONRPCMessage) error {
	var params CodeActionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	actions := s.getCodeActions(params)
	s.sendResponse(msg.ID, actions, nil)
	return nil
}

// getCodeActions offers one quick fix per diagnostic that carries a replacement.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	actions := []CodeAction{}
	if len(params.Context.Only) > 0 && !slices.Contains(params.Context.Only, CodeActionKindQuickFix) {
		return actions
	}

	doc := s.documents.Get(params.TextDocument.URI)
	for _, diag := range params.Context.Diagnostics {
		if diag.Source != serverName || diag.Data == nil || diag.Data.Replacement == "" {
			continue
		}

		title := fmt.Sprintf("Replace with %q", diag.Data.Replacement)
		if doc != nil {
			if old := doc.GetTextInRange(diag.Range); old != "" {
				title = fmt.Sprintf("Replace %q with %q", old, diag.Data.Replacement)
			}
		}

		actions = append(actions, CodeAction{
			Title:       title,
			Kind:        CodeActionKindQuickFix,
			Diagnostics: []Diagnostic{diag},
			IsPreferred: true,
			Edit: &WorkspaceEdit{
				Changes: map[string][]TextEdit{
					params.TextDocument.URI: {{Range: diag.Range, NewText: diag.Data.Replacement}},
				},
			},
		})
	}
	return actions
}

// handleHover handles the textDocument/hover request.
func (s *Server) handleHover(msg *JSONRPCMessage) error {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	hover := s.getHover(params)
	s.sendResponse(msg.ID, hover, nil)
	return nil
}

// getHover describes the checks behind the diagnostics under the cursor.
// It returns nil when there are none.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return nil
	}
	diags := doc.DiagnosticsAt(params.Position)
	if len(diags) == 0 {
		return nil
	}

	var sb strings.Builder
	for i, diag := range diags {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		check, ok := s.registry.Find(diag.Code)
		if !ok {
			fmt.Fprintf(&sb, "**%s**\n\n%s\n", diag.Code, diag.Message)
			continue
		}
		sb.WriteString(formatCheckHover(check.Info()))
	}

	rng := diags[0].Range
	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: sb.String()},
		Range:    &rng,
	}
}

func formatCheckHover(info core.CheckInfo) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** (%s)\n\n", info.ID, info.DefaultSeverity)
	fmt.Fprintf(&sb, "%s\n\n", info.Message)
	if info.Replacement != "" {
		fmt.Fprintf(&sb, "Suggested: `%s`\n\n", info.Replacement)
	}
	fmt.Fprintf(&sb, "Category: `%s` | [Documentation](%s)\n", info.Category, info.DocURL)
	return sb.String()
}
