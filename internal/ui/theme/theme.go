// Package theme holds the colors and shared styles of the terminal player.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Warm palette, chosen for dark terminals.
var (
	Primary   = lipgloss.Color("#C2410C")
	Secondary = lipgloss.Color("#0EA5A4")
	Accent    = lipgloss.Color("#EAB308")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F5F5F4")
	TextDim   = lipgloss.Color("#A8A29E")
	BgCard    = lipgloss.Color("#292524")
	Border    = lipgloss.Color("#44403C")
)

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

var (
	Title      = fg(Primary).Bold(true)
	Body       = fg(Text)
	Hint       = fg(TextDim).Italic(true)
	ErrorText  = fg(Error).Bold(true)
	Selected   = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Score      = fg(Accent).Bold(true)

	// Card frames question and result text.
	Card = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(1, 2)
)
