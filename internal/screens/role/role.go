package role

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

// RoleScreen asks who is using the app.
type RoleScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*RoleScreen)(nil)
var _ screen.KeyHintProvider = (*RoleScreen)(nil)

// New creates a RoleScreen.
func New() *RoleScreen {
	pick := func(r tutor.Role) func() tea.Cmd {
		return func() tea.Cmd {
			return screen.Act(func(m *tutor.Machine) error { return m.SelectRole(r) })
		}
	}
	items := []components.MenuItem{
		{Label: "I'm a Student", Action: pick(tutor.RoleStudent)},
		{Label: "I'm an Instructor", Action: pick(tutor.RoleInstructor)},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &RoleScreen{menu: components.NewMenu(items)}
}

func (s *RoleScreen) Init() tea.Cmd {
	return nil
}

func (s *RoleScreen) Title() string {
	return "Welcome"
}

func (s *RoleScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *RoleScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *RoleScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 50)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Welcome to your reading tutor"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render("Who's reading today?"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Render(s.menu.View()))

	return components.Centered(components.Card(b.String(), cw), width, height)
}
