package reading

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/readiz/internal/ui/components"
	"github.com/abhisek/readiz/internal/ui/layout"
	"github.com/abhisek/readiz/internal/ui/theme"
)

func (s *ReadingScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}
	q, ok := s.snap.CurrentQuestion()
	if !ok {
		return ""
	}

	cw := components.ContentWidth(width)
	question := s.renderQuestion(cw)

	// The passage gets whatever the question card leaves over.
	paneHeight := max(height-lipgloss.Height(question)-3, 3)
	s.pageSize = max(paneHeight-1, 1)

	var lines []string
	for i, p := range s.snap.Session.Paragraphs() {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, layout.Wrap(p, cw)...)
	}
	visible, offset := layout.Window(lines, s.offset, paneHeight)
	s.offset = offset

	scroll := ""
	if len(lines) > paneHeight {
		scroll = fmt.Sprintf("  lines %d-%d of %d", offset+1, offset+len(visible), len(lines))
	}

	header := theme.Heading.Render(fmt.Sprintf("Question %d of %d · %s",
		s.snap.QuestionIndex+1, len(s.snap.Session.Questions), q.Type.Label())) +
		theme.Hint.Render(scroll)

	passage := lipgloss.NewStyle().
		Width(cw).
		Height(paneHeight).
		Foreground(theme.Text).
		Render(strings.Join(visible, "\n"))

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, header, passage, question))
}

func (s *ReadingScreen) renderQuestion(cw int) string {
	q, _ := s.snap.CurrentQuestion()
	inner := cw - 4

	var b strings.Builder
	answered := 0
	for _, sq := range s.snap.Session.Questions {
		if strings.TrimSpace(s.snap.Answers[sq.ID]) != "" {
			answered++
		}
	}
	b.WriteString(components.NewProgressBar("Answered", answered, len(s.snap.Session.Questions), inner).View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(inner).Bold(true).Foreground(theme.Text).Render(q.QuestionText))
	b.WriteString("\n\n")

	if q.IsOpenEnded() {
		b.WriteString(s.input.View())
		b.WriteString("\n")
	} else {
		b.WriteString(s.choice.View(inner))
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorText.Render(s.errMsg))
	} else if s.snap.IsLastQuestion() && s.snap.CanSubmit() {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("All questions answered. Press Enter to submit."))
	}
	return components.Card(b.String(), cw)
}

func renderQuitConfirm(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Leave this reading session?"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Your answers will not be saved."))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("[Y] Yes, back to the dashboard"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render("[N] No, keep reading"))
	return components.Centered(b.String(), width, height)
}
