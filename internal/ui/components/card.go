package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/readiz/internal/ui/theme"
)

// ContentWidth returns the inner width used for cards and forms so
// sections line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 90)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return theme.Card.Width(cw).Render(content)
}

// Centered places block in the middle of a width x height area.
func Centered(block string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}
