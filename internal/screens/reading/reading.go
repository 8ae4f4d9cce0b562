package reading

import (
	"errors"
	"unicode"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"

	rd "github.com/abhisek/readiz/internal/reading"
	"github.com/abhisek/readiz/internal/screen"
	"github.com/abhisek/readiz/internal/tutor"
	"github.com/abhisek/readiz/internal/ui/components"
	"github.com/abhisek/readiz/internal/ui/layout"
)

// ReadingScreen shows the passage and walks through the questions.
type ReadingScreen struct {
	snap tutor.Snapshot

	choice components.Choice
	input  components.TextInput

	offset      int
	pageSize    int
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*ReadingScreen)(nil)
var _ screen.KeyHintProvider = (*ReadingScreen)(nil)

// New creates a ReadingScreen for the session in snap.
func New(snap tutor.Snapshot) *ReadingScreen {
	s := &ReadingScreen{snap: snap, pageSize: 10}
	s.resetQuestion()
	return s
}

func (s *ReadingScreen) Init() tea.Cmd {
	if q, ok := s.snap.CurrentQuestion(); ok && q.IsOpenEnded() {
		return s.input.Focus()
	}
	return nil
}

func (s *ReadingScreen) Title() string {
	return s.snap.SessionTitle()
}

func (s *ReadingScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Leave session"},
			{Key: "N", Description: "Keep reading"},
		}
	}
	next := "Next"
	if s.snap.IsLastQuestion() {
		next = "Submit"
	}
	hints := []layout.KeyHint{{Key: "PgUp/PgDn", Description: "Scroll"}}
	if q, ok := s.snap.CurrentQuestion(); ok && !q.IsOpenEnded() {
		hints = append(hints, layout.KeyHint{Key: "1-4", Description: "Choose"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: next},
		layout.KeyHint{Key: "Shift+Tab", Description: "Back"},
		layout.KeyHint{Key: "Esc", Description: "Leave"},
	)
}

// resetQuestion rebuilds the answer widgets for the current question.
func (s *ReadingScreen) resetQuestion() {
	q, ok := s.snap.CurrentQuestion()
	if !ok {
		return
	}
	answer := s.snap.Answers[q.ID]
	if q.IsOpenEnded() {
		s.input = components.NewTextInput("Your answer", "Type your answer and press Enter", 1000)
		s.input.SetValue(answer)
		return
	}
	s.choice = components.NewChoice(q.Options, answer)
}

func (s *ReadingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.AppliedMsg:
		return s.handleApplied(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	if q, ok := s.snap.CurrentQuestion(); ok && q.IsOpenEnded() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ReadingScreen) handleApplied(msg screen.AppliedMsg) (screen.Screen, tea.Cmd) {
	moved := msg.Snapshot.QuestionIndex != s.snap.QuestionIndex
	s.snap = msg.Snapshot
	s.errMsg = sentence(msg.Err)
	if !moved {
		return s, nil
	}
	s.resetQuestion()
	return s, s.Init()
}

func (s *ReadingScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, screen.Act(func(m *tutor.Machine) error { return m.Restart() })
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	q, ok := s.snap.CurrentQuestion()
	if !ok {
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "pgdown", "ctrl+d":
		s.offset += s.pageSize
		return s, nil
	case "pgup", "ctrl+u":
		s.offset = max(s.offset-s.pageSize, 0)
		return s, nil
	case "shift+tab":
		return s, s.prev(q)
	case "enter":
		return s, s.advance(q)
	}

	if q.IsOpenEnded() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}

	if key == "left" {
		return s, s.prev(q)
	}
	var picked string
	s.choice, picked = s.choice.Update(msg)
	if picked == "" {
		return s, nil
	}
	s.errMsg = ""
	return s, screen.Act(func(m *tutor.Machine) error { return m.Answer(q.ID, picked) })
}

// prev steps back, keeping any typed answer.
func (s *ReadingScreen) prev(q rd.Question) tea.Cmd {
	text, record := s.typedAnswer(q)
	return screen.Act(func(m *tutor.Machine) error {
		if record {
			if err := m.Answer(q.ID, text); err != nil {
				return err
			}
		}
		return m.Prev()
	})
}

// advance records the pending answer and moves on, submitting after the
// last question.
func (s *ReadingScreen) advance(q rd.Question) tea.Cmd {
	answer, record := s.pendingAnswer(q)
	last := s.snap.IsLastQuestion()
	return screen.Dispatch(func(m *tutor.Machine) (*tutor.Task, error) {
		if record {
			if err := m.Answer(q.ID, answer); err != nil {
				return nil, err
			}
		}
		if last {
			return m.Submit()
		}
		return nil, m.Next()
	})
}

// pendingAnswer returns an answer the widgets hold that the machine has
// not recorded yet. A multiple-choice question with nothing chosen takes
// the highlighted option.
func (s *ReadingScreen) pendingAnswer(q rd.Question) (string, bool) {
	if q.IsOpenEnded() {
		return s.typedAnswer(q)
	}
	if s.choice.Chosen >= 0 {
		return "", false
	}
	var picked string
	s.choice, picked = s.choice.Pick(s.choice.Cursor)
	return picked, picked != ""
}

func (s *ReadingScreen) typedAnswer(q rd.Question) (string, bool) {
	if !q.IsOpenEnded() || s.input.Value() == s.snap.Answers[q.ID] {
		return "", false
	}
	return s.input.Value(), true
}

// sentence turns an intent rejection into a message for the student.
func sentence(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tutor.ErrLastQuestion), errors.Is(err, tutor.ErrFirstQuestion):
		return ""
	}
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:] + "."
}
