package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/readiz/internal/reading"
	"github.com/abhisek/readiz/internal/screen"
	"github.com/abhisek/readiz/internal/tutor"
	"github.com/abhisek/readiz/internal/ui/components"
	"github.com/abhisek/readiz/internal/ui/layout"
	"github.com/abhisek/readiz/internal/ui/theme"
)

// ResultsScreen displays the graded session.
type ResultsScreen struct {
	result *reading.EvaluationResult
	topic  string
	offset int
	page   int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for the result in snap.
func New(snap tutor.Snapshot) *ResultsScreen {
	return &ResultsScreen{result: snap.Result, topic: snap.SessionTitle(), page: 10}
}

func (s *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultsScreen) Title() string {
	return "Results"
}

func (s *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Try another topic"},
		{Key: "S", Description: "Switch role"},
	}
}

func (s *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "r":
		return s, screen.Act(func(m *tutor.Machine) error { return m.Restart() })
	case "s", "esc":
		return s, screen.Act(func(m *tutor.Machine) error { return m.SwitchRole() })
	case "down", "j":
		s.offset++
	case "up", "k":
		s.offset = max(s.offset-1, 0)
	case "pgdown", "ctrl+d":
		s.offset += s.page
	case "pgup", "ctrl+u":
		s.offset = max(s.offset-s.page, 0)
	}
	return s, nil
}

func (s *ResultsScreen) View(width, height int) string {
	r := s.result
	if r == nil {
		return ""
	}
	cw := components.ContentWidth(width)
	s.page = max(height-2, 1)

	lines := s.render(cw)
	visible, offset := layout.Window(lines, s.offset, height)
	s.offset = offset

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(strings.Join(visible, "\n")))
}

// render lays out the whole report as lines so it can scroll.
func (s *ResultsScreen) render(cw int) []string {
	r := s.result
	var lines []string
	add := func(text string) {
		lines = append(lines, strings.Split(text, "\n")...)
	}
	section := func(title string) {
		add("")
		add(theme.Heading.Render(title))
		add(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	}

	add(theme.Title.Width(cw).Render("Your Results"))
	if s.topic != "" {
		add(theme.Subtitle.Width(cw).Render(s.topic))
	}
	add("")
	add(lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
		Foreground(theme.Accent).Bold(true).
		Render(fmt.Sprintf("%d / %d", r.Score, r.TotalQuestions)))
	add(theme.Subtitle.Width(cw).Render(r.Encouragement()))

	section("Strengths")
	add(theme.Body.Width(cw).Render(r.Strengths))

	section("Areas for Growth")
	add(theme.Body.Width(cw).Render(r.AreasForGrowth))

	section("Question Feedback")
	for i, fb := range r.Feedback {
		if i > 0 {
			add("")
		}
		mark := theme.Correct.Render("✓ Correct")
		if !fb.IsCorrect {
			mark = theme.Incorrect.Render("✗ Not quite")
		}
		add(mark)
		add(lipgloss.NewStyle().Width(cw).Bold(true).Foreground(theme.Text).
			Render(fmt.Sprintf("%d. %s", i+1, fb.QuestionText)))
		add(lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).
			Render("Your answer: " + fb.UserAnswer))
		add(theme.Body.Width(cw).Render(fb.Explanation))
	}

	section("What to Read Next")
	for _, rec := range r.Recommendations {
		add(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("• " + rec.Title))
		add(lipgloss.NewStyle().Width(cw).PaddingLeft(2).Foreground(theme.TextDim).Render(rec.Reason))
	}

	add("")
	add(theme.Hint.Render("Press Enter to try another topic."))
	return lines
}
