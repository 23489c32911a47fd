package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/leapprose/pkg/core"
)

// Styles holds the lipgloss styles used by commands.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	Error         lipgloss.Style
	Warning       lipgloss.Style
	Info          lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	Path          lipgloss.Style
	CheckID       lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Underline(true),
		Header2:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:          r.NewStyle().Bold(true),
		Muted:         r.NewStyle().Foreground(lipgloss.Color("8")),
		Error:         r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:       r.NewStyle().Foreground(lipgloss.Color("11")),
		Info:          r.NewStyle().Foreground(lipgloss.Color("12")),
		StatusSuccess: r.NewStyle().Foreground(lipgloss.Color("10")),
		StatusFailed:  r.NewStyle().Foreground(lipgloss.Color("9")),
		Path:          r.NewStyle().Bold(true).Underline(true),
		CheckID:       r.NewStyle().Foreground(lipgloss.Color("13")),
	}
}

// Severity returns the style for a severity level.
func (s *Styles) Severity(sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return s.Error
	case core.SeverityWarning:
		return s.Warning
	default:
		return s.Info
	}
}
