package student

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/readiz/internal/material"
	"github.com/abhisek/readiz/internal/reading"
	"github.com/abhisek/readiz/internal/screen"
	"github.com/abhisek/readiz/internal/tutor"
	"github.com/abhisek/readiz/internal/ui/components"
	"github.com/abhisek/readiz/internal/ui/layout"
	"github.com/abhisek/readiz/internal/ui/theme"
)

// StudentScreen lets a student pick a topic or an instructor's material.
type StudentScreen struct {
	materials []reading.ReadingMaterial
	menu      components.Menu
	errMsg    string
}

var _ screen.Screen = (*StudentScreen)(nil)
var _ screen.KeyHintProvider = (*StudentScreen)(nil)

// New creates a StudentScreen listing the materials in repo.
func New(repo *material.Repository) *StudentScreen {
	s := &StudentScreen{materials: repo.List()}
	s.menu = components.NewMenu(s.items())
	return s
}

func (s *StudentScreen) items() []components.MenuItem {
	var items []components.MenuItem
	for i, topic := range tutor.Topics {
		item := components.MenuItem{Label: topic, Action: startTopic(topic)}
		if i == 0 {
			item.Section = "Choose a topic"
		}
		items = append(items, item)
	}
	for i, mat := range s.materials {
		item := components.MenuItem{
			Label:  mat.Title,
			Badge:  theme.Badge(mat.Content.Kind()),
			Action: startMaterial(mat.ID),
		}
		if i == 0 {
			item.Section = "Or read something from your instructor"
		}
		items = append(items, item)
	}
	return items
}

func startTopic(topic string) func() tea.Cmd {
	return func() tea.Cmd {
		return screen.Dispatch(func(m *tutor.Machine) (*tutor.Task, error) {
			return m.SelectTopic(topic)
		})
	}
}

func startMaterial(id string) func() tea.Cmd {
	return func() tea.Cmd {
		return screen.Dispatch(func(m *tutor.Machine) (*tutor.Task, error) {
			return m.SelectMaterial(id)
		})
	}
}

func (s *StudentScreen) Init() tea.Cmd {
	return nil
}

func (s *StudentScreen) Title() string {
	return "Student Dashboard"
}

func (s *StudentScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Start reading"},
		{Key: "Esc", Description: "Switch role"},
	}
}

func (s *StudentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.AppliedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		}
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, screen.Act(func(m *tutor.Machine) error { return m.SwitchRole() })
		}
		s.errMsg = ""
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *StudentScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("What would you like to read today?"))
	b.WriteString("\n\n")

	menu := s.menu.View()
	if len(s.materials) == 0 {
		menu += "\n" + theme.Hint.Render("No materials from your instructor yet.")
	}
	b.WriteString(lipgloss.NewStyle().Width(cw).Render(menu))

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	}

	return components.Centered(components.Card(b.String(), cw), width, height)
}
