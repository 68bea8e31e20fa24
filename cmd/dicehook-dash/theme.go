package main

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors of the dashboard.
type Theme struct {
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
}

// DefaultTheme returns the default dashboard palette.
func DefaultTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("12"),  // Blue
		Success: lipgloss.Color("10"),  // Green
		Warning: lipgloss.Color("11"),  // Yellow
		Error:   lipgloss.Color("9"),   // Red
		Muted:   lipgloss.Color("240"), // Gray
	}
}

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Title    lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Cooldown lipgloss.Style
	Hot      lipgloss.Style
	Table    table.Styles
}

// NewStyles builds the styles for t.
func NewStyles(t Theme) Styles {
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(t.Primary)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary).Padding(0, 1),
		Status:   lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(t.Error).Padding(0, 1),
		Muted:    lipgloss.NewStyle().Foreground(t.Muted),
		Cooldown: lipgloss.NewStyle().Foreground(t.Warning),
		Hot:      lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Table:    ts,
	}
}
