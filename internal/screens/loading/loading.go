package loading

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/readiz/internal/screen"
	"github.com/abhisek/readiz/internal/tutor"
	"github.com/abhisek/readiz/internal/ui/layout"
	"github.com/abhisek/readiz/internal/ui/theme"
)

const tickInterval = 120 * time.Millisecond

var frames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg time.Time

// LoadingScreen shows a spinner while a task is in flight.
type LoadingScreen struct {
	stage   tutor.Stage
	subject string
	frame   int
	elapsed time.Duration
}

var _ screen.Screen = (*LoadingScreen)(nil)
var _ screen.KeyHintProvider = (*LoadingScreen)(nil)

// New creates a LoadingScreen for stage. subject names what is being
// prepared and may be empty.
func New(stage tutor.Stage, subject string) *LoadingScreen {
	return &LoadingScreen{stage: stage, subject: subject}
}

func (s *LoadingScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (s *LoadingScreen) Title() string {
	return "Please wait"
}

func (s *LoadingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Cancel"},
	}
}

func (s *LoadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		s.frame = (s.frame + 1) % len(frames)
		s.elapsed += tickInterval
		return s, tick()
	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, screen.Act(func(m *tutor.Machine) error {
				if !m.Cancel() {
					return tutor.ErrInvalidTransition
				}
				return nil
			})
		}
	}
	return s, nil
}

func (s *LoadingScreen) View(width, height int) string {
	var lines []string
	lines = append(lines, lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render(frames[s.frame]+"  "+s.stage.Text()))

	if s.subject != "" {
		lines = append(lines, "", theme.Subtitle.Render(s.subject))
	}
	if s.elapsed >= 10*time.Second {
		lines = append(lines, "", theme.Hint.Render("This can take a little while..."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(lines, "\n"))
}
