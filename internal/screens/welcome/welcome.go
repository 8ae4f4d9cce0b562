package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/readiz/internal/router"
	"github.com/abhisek/readiz/internal/screen"
	"github.com/abhisek/readiz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	pagesEnd     = 800 * time.Millisecond
	bannerAt     = 1200 * time.Millisecond
	totalDur     = 2000 * time.Millisecond
)

const bookArt = `   ________   ________
  /        \ /        \
 |  ~~~~~~  |  ~~~~~~  |
 |  ~~~~~~  |  ~~~~~~  |
 |  ~~~~    |  ~~~~~   |
 |  ~~~~~~  |  ~~~~~~  |
  \________/ \________/`

// pageFrames animate the book opening.
var pageFrames = []string{"|", "/", "-", "\\"}

type tickMsg time.Time

// WelcomeScreen shows a short splash before role selection.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with next() on the
// first key press.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		if w.transitioned {
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	nextScreen := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: nextScreen}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	book := lipgloss.NewStyle().Foreground(theme.Secondary).Render(bookArt)
	if w.elapsed < pagesEnd {
		flip := lipgloss.NewStyle().Foreground(theme.Accent).
			Render(pageFrames[w.tickCount%len(pageFrames)])
		book = flip + "\n" + book
	} else {
		book = " \n" + book
	}
	sections = append(sections, book)

	if w.elapsed >= bannerAt {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Let's read something great!"),
		)
	}
	if w.elapsed >= totalDur {
		sections = append(sections, "", theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
