package instructor

import (
	"fmt"
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

// Source is the input type selected on the add-material form.
type Source int

const (
	SourceText Source = iota
	SourceFile
	SourceURL
)

var sourceLabels = []string{"Paste Text", "Upload File", "From URL"}

func (s Source) placeholder() string {
	switch s {
	case SourceFile:
		return "path to a .pdf or .docx file"
	case SourceURL:
		return "https://example.com/article"
	default:
		return "paste the reading passage here"
	}
}

type field int

const (
	fieldTitle field = iota
	fieldSource
	fieldContent
	fieldCount
)

// InstructorScreen lists materials and hosts the add-material form.
type InstructorScreen struct {
	repo      *material.Repository
	materials []reading.ReadingMaterial

	title   components.TextInput
	content components.TextInput
	source  Source
	focus   field

	pending string
	errMsg  string
	notice  string
}

var _ screen.Screen = (*InstructorScreen)(nil)
var _ screen.KeyHintProvider = (*InstructorScreen)(nil)

// New creates an InstructorScreen backed by repo.
func New(repo *material.Repository) *InstructorScreen {
	s := &InstructorScreen{
		repo:      repo,
		materials: repo.List(),
		title:     components.NewTextInput("Title", "e.g. The Water Cycle", 120),
		content:   components.NewTextInput("Content", SourceText.placeholder(), 0),
	}
	return s
}

func (s *InstructorScreen) Init() tea.Cmd {
	return s.title.Focus()
}

func (s *InstructorScreen) Title() string {
	return "Instructor Dashboard"
}

func (s *InstructorScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
	}
	if s.focus == fieldSource {
		hints = append(hints, layout.KeyHint{Key: "←→", Description: "Input type"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Add material"},
		layout.KeyHint{Key: "Esc", Description: "Switch role"},
	)
}

// Source returns the selected input type.
func (s *InstructorScreen) Source() Source { return s.source }

func (s *InstructorScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.AppliedMsg:
		return s.handleApplied(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, s.forward(msg)
}

func (s *InstructorScreen) handleApplied(msg screen.AppliedMsg) (screen.Screen, tea.Cmd) {
	added := s.pending
	s.pending = ""
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.materials = s.repo.List()
	s.title.Reset()
	s.content.Reset()
	s.errMsg = ""
	if added != "" {
		s.notice = fmt.Sprintf("Added %q.", added)
	}
	return s, s.setFocus(fieldTitle)
}

func (s *InstructorScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, screen.Act(func(m *tutor.Machine) error { return m.SwitchRole() })
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
	case "enter":
		return s, s.submit()
	}

	if s.focus == fieldSource {
		switch msg.String() {
		case "left", "h":
			s.setSource((s.source + Source(len(sourceLabels)) - 1) % Source(len(sourceLabels)))
		case "right", "l":
			s.setSource((s.source + 1) % Source(len(sourceLabels)))
		}
		return s, nil
	}
	return s, s.forward(msg)
}

func (s *InstructorScreen) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch s.focus {
	case fieldTitle:
		s.title, cmd = s.title.Update(msg)
	case fieldContent:
		s.content, cmd = s.content.Update(msg)
	}
	return cmd
}

func (s *InstructorScreen) setFocus(f field) tea.Cmd {
	s.focus = f
	s.title.Blur()
	s.content.Blur()
	switch f {
	case fieldTitle:
		return s.title.Focus()
	case fieldContent:
		return s.content.Focus()
	}
	return nil
}

func (s *InstructorScreen) setSource(src Source) {
	if src == s.source {
		return
	}
	s.source = src
	s.content.Reset()
	s.content.Model.Placeholder = src.placeholder()
	s.errMsg = ""
}

// submit builds a draft from the form and dispatches it.
func (s *InstructorScreen) submit() tea.Cmd {
	s.notice = ""
	draft, err := s.draft()
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	if draft.File != nil {
		s.notice = material.SizeWarning(draft.File)
	}
	s.pending = strings.TrimSpace(draft.Title)
	return screen.Act(func(m *tutor.Machine) error {
		_, err := m.AddMaterial(draft)
		return err
	})
}

func (s *InstructorScreen) draft() (material.Draft, error) {
	d := material.Draft{Title: s.title.Value()}
	value := s.content.Value()
	switch s.source {
	case SourceText:
		d.Text = value
	case SourceURL:
		d.URL = strings.TrimSpace(value)
	case SourceFile:
		// Title and content are checked before touching the filesystem.
		if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(value) == "" {
			return d, nil
		}
		f, err := material.LoadFile(value)
		if err != nil {
			return d, err
		}
		d.File = f
	}
	return d, nil
}

func (s *InstructorScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Heading.Render("Add reading material"))
	b.WriteString("\n\n")
	b.WriteString(s.title.View())
	b.WriteString("\n\n")
	b.WriteString(s.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(s.content.View())
	b.WriteString("\n")
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice))
		b.WriteString("\n")
	}
	form := components.Card(b.String(), cw)

	list := components.Card(s.renderList(cw), cw)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, form, list))
}

func (s *InstructorScreen) renderTabs() string {
	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.focus == fieldSource {
		label = label.Foreground(theme.Primary).Bold(true)
	}
	tabs := make([]string, len(sourceLabels))
	for i, l := range sourceLabels {
		if Source(i) == s.source {
			tabs[i] = theme.TabActive.Render(l)
		} else {
			tabs[i] = theme.TabInactive.Render(l)
		}
	}
	return label.Render("Input type: ") + strings.Join(tabs, " ")
}

func (s *InstructorScreen) renderList(cw int) string {
	var b strings.Builder
	b.WriteString(theme.Heading.Render(fmt.Sprintf("Materials (%d)", len(s.materials))))
	b.WriteString("\n")
	if len(s.materials) == 0 {
		b.WriteString(theme.Hint.Render("Nothing here yet. Add your first passage above."))
		return b.String()
	}
	for _, mat := range s.materials {
		line := theme.Badge(mat.Content.Kind()) + " " + mat.Title
		desc := mat.Content.Describe()
		if desc != "" {
			line += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + desc)
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().MaxWidth(cw).Render(line))
	}
	return b.String()
}
