package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all lipgloss styles for the TUI
type Styles struct {
	// Header styling
	Title  lipgloss.Style
	Timer  lipgloss.Style
	PassID lipgloss.Style

	// Container rows
	Pending   lipgloss.Style
	Active    lipgloss.Style
	Started   lipgloss.Style
	Failed    lipgloss.Style
	Name      lipgloss.Style
	Detail    lipgloss.Style
	Warning   lipgloss.Style
	Diagnosis lipgloss.Style

	// Footer styling
	Footer    lipgloss.Style
	FooterKey lipgloss.Style

	// Status counts
	StatusStarted lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusPending lipgloss.Style

	// Log area styling
	LogTitle lipgloss.Style
	LogLine  lipgloss.Style
}

// DefaultStyles returns the default TUI styles
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Timer:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		PassID: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),

		Pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Active:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Started:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Failed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Name:      lipgloss.NewStyle().Bold(true),
		Detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true),
		Diagnosis: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),

		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		FooterKey: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),

		StatusStarted: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		StatusPending: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),

		LogTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Bold(true),
		LogLine:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Icons used in the TUI
const (
	IconPending  = "○"
	IconActive   = "●"
	IconComplete = "✓"
	IconFailed   = "✗"
	IconSkipped  = "-"
	IconWarning  = "!"
)
