package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/readiz/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// Choice is a multiple-choice selector. Cursor is the highlighted row and
// Chosen the option currently recorded as the answer (-1 for none).
type Choice struct {
	Options []string
	Cursor  int
	Chosen  int
}

// NewChoice creates a selector with chosen preselected when it is one of
// options.
func NewChoice(options []string, chosen string) Choice {
	c := Choice{Options: options, Chosen: -1}
	for i, opt := range options {
		if opt == chosen {
			c.Chosen = i
			c.Cursor = i
		}
	}
	return c
}

// Update moves the cursor and picks options. The returned string is the
// option picked by this message, or "" when nothing was picked.
func (c Choice) Update(msg tea.Msg) (Choice, string) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, ""
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ":
		return c.Pick(c.Cursor)
	case "1", "2", "3", "4":
		return c.Pick(int(key[0] - '1'))
	}
	return c, ""
}

// Pick chooses option i and returns it, or "" when i is out of range.
func (c Choice) Pick(i int) (Choice, string) {
	if i < 0 || i >= len(c.Options) {
		return c, ""
	}
	c.Cursor = i
	c.Chosen = i
	return c, c.Options[i]
}

// View renders the options at the given width.
func (c Choice) View(width int) string {
	var b strings.Builder
	for i, opt := range c.Options {
		label := "?"
		if i < len(optionLabels) {
			label = optionLabels[i]
		}
		mark := "○"
		if i == c.Chosen {
			mark = "●"
		}
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s %s) %s", prefix, mark, label, opt)
		style := lipgloss.NewStyle().Width(width).Foreground(theme.Text)
		switch {
		case i == c.Chosen:
			style = style.Foreground(theme.Secondary).Bold(true)
		case i == c.Cursor:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
