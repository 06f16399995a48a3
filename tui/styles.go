package tui

import (
	"fullpicture/types"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
const (
	colorPrimary   = "#7D56F4"
	colorSuccess   = "#04B575"
	colorError     = "#FF0000"
	colorInfo      = "#626262"
	colorHighlight = "#FAFAFA"
	colorBorder    = "#874BFD"
	colorFiller    = "#3F3F46"
)

// Styles for the TUI application
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	HighlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHighlight)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 1)

	SearchStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(colorInfo)).
			Padding(0, 1)

	CardTitleStyle = lipgloss.NewStyle().Bold(true)

	PlaceholderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(colorFiller)).
				Foreground(lipgloss.Color(colorInfo)).
				Italic(true).
				Padding(0, 1)
)

// badgeStyle renders a leaning badge in its own color
func badgeStyle(l types.Leaning) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(l.Color()))
}

// cardStyle is the bordered box around one card
func cardStyle(l types.Leaning, known, selected, filler bool, width int) lipgloss.Style {
	border := lipgloss.Color(colorBorder)
	if known {
		border = lipgloss.Color(l.Color())
	}
	if filler {
		border = lipgloss.Color(colorFiller)
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(max(width-2, 10))
	if selected {
		style = style.Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color(colorHighlight))
	}
	return style
}
