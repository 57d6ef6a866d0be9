package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#2196F3")
	colorAccent  = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#7a8599")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#e53935")
)

// Styles holds the lipgloss styles used by the dashboard view.
type Styles struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	Muted       lipgloss.Style
	Category    lipgloss.Style
	Bar         lipgloss.Style
	Explanation lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Spinner     lipgloss.Style
	Help        lipgloss.Style
}

// DefaultStyles returns the dashboard palette.
func DefaultStyles() Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1),
		Label:       lipgloss.NewStyle().Foreground(colorMuted),
		Value:       lipgloss.NewStyle().Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
		Category:    lipgloss.NewStyle().Bold(true),
		Bar:         lipgloss.NewStyle().Foreground(colorAccent),
		Explanation: lipgloss.NewStyle().Foreground(colorMuted).PaddingLeft(4),
		Status:      lipgloss.NewStyle().Foreground(colorWarning),
		Error:       lipgloss.NewStyle().Foreground(colorError),
		Spinner:     lipgloss.NewStyle().Foreground(colorPrimary),
		Help:        lipgloss.NewStyle().Foreground(colorMuted),
	}
}
