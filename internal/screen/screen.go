package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/readiz/internal/tutor"
	"github.com/abhisek/readiz/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Intent applies a user action to the machine. A non-nil Task is run in
// the background and its outcome resolved by the root model.
type Intent func(m *tutor.Machine) (*tutor.Task, error)

// IntentMsg carries an Intent from a screen to the root model.
type IntentMsg struct {
	Apply Intent
}

// AppliedMsg is sent to the active screen after an intent it dispatched
// left the machine in the same state. Err is nil when the intent was
// accepted.
type AppliedMsg struct {
	Snapshot tutor.Snapshot
	Err      error
}

// Dispatch returns a command that sends intent to the root model.
func Dispatch(intent Intent) tea.Cmd {
	return func() tea.Msg { return IntentMsg{Apply: intent} }
}

// Act is Dispatch for intents that never start a task.
func Act(fn func(m *tutor.Machine) error) tea.Cmd {
	return Dispatch(func(m *tutor.Machine) (*tutor.Task, error) {
		return nil, fn(m)
	})
}
