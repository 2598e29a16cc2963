package tui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used to render the view
type Theme struct {
	AppBar      lipgloss.Style
	Heading     lipgloss.Style
	Hint        lipgloss.Style
	Row         lipgloss.Style
	SelectedRow lipgloss.Style
	Income      lipgloss.Style
	Expense     lipgloss.Style
	Empty       lipgloss.Style
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style
	Label       lipgloss.Style
	FocusLabel  lipgloss.Style
}

// DefaultTheme is a dark-terminal palette
var DefaultTheme = Theme{
	AppBar: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		Background(lipgloss.Color("#1976d2")).
		Padding(0, 1),
	Heading: lipgloss.NewStyle().Bold(true).MarginTop(1),
	Hint:    lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")),
	Row: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("#444444")).
		PaddingLeft(1),
	SelectedRow: lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("#1976d2")).
		PaddingLeft(1),
	Income:      lipgloss.NewStyle().Foreground(lipgloss.Color("#4caf50")),
	Expense:     lipgloss.NewStyle().Foreground(lipgloss.Color("#f44336")),
	Empty:       lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true),
	Dialog:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2),
	DialogTitle: lipgloss.NewStyle().Bold(true).MarginBottom(1),
	Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("#aaaaaa")),
	FocusLabel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#1976d2")).Bold(true),
}
