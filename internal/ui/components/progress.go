package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sovbot/internal/ui/theme"
)

// ProgressBar shows how far through the questionnaire the user is.
type ProgressBar struct {
	Done  int
	Total int
	Width int
}

// Fraction returns Done/Total clamped to [0, 1].
func (p ProgressBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return min(max(float64(p.Done)/float64(p.Total), 0), 1)
}

// View renders the bar followed by "done/total".
func (p ProgressBar) View() string {
	counter := fmt.Sprintf("  %d/%d", p.Done, p.Total)
	barWidth := max(p.Width-len(counter), 4)
	filled := int(float64(barWidth) * p.Fraction())

	return lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(counter)
}
