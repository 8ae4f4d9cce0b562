package failure

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/readiz/internal/screen"
	"github.com/abhisek/readiz/internal/tutor"
	"github.com/abhisek/readiz/internal/ui/components"
	"github.com/abhisek/readiz/internal/ui/layout"
	"github.com/abhisek/readiz/internal/ui/theme"
)

// FailureScreen shows why the last request failed.
type FailureScreen struct {
	message string
}

var _ screen.Screen = (*FailureScreen)(nil)
var _ screen.KeyHintProvider = (*FailureScreen)(nil)

// New creates a FailureScreen showing message.
func New(message string) *FailureScreen {
	return &FailureScreen{message: message}
}

func (s *FailureScreen) Init() tea.Cmd {
	return nil
}

func (s *FailureScreen) Title() string {
	return "Error"
}

func (s *FailureScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Try again"},
		{Key: "S", Description: "Switch role"},
	}
}

func (s *FailureScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "r":
			return s, screen.Act(func(m *tutor.Machine) error { return m.Restart() })
		case "s":
			return s, screen.Act(func(m *tutor.Machine) error { return m.SwitchRole() })
		}
	}
	return s, nil
}

func (s *FailureScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 60)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Foreground(theme.Error).Bold(true).Render("An Error Occurred"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Foreground(theme.Text).Render(s.message))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Render(theme.TabActive.Render("Try Again")))

	return components.Centered(components.Card(b.String(), cw), width, height)
}
