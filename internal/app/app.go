// Package app is the root Bubble Tea model. It owns the tutor machine,
// runs its tasks as commands, and keeps the router showing the screen for
// the current state.
package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/readiz/internal/logger"
	"github.com/abhisek/readiz/internal/router"
	"github.com/abhisek/readiz/internal/screen"
	"github.com/abhisek/readiz/internal/screens/failure"
	"github.com/abhisek/readiz/internal/screens/instructor"
	"github.com/abhisek/readiz/internal/screens/loading"
	"github.com/abhisek/readiz/internal/screens/reading"
	"github.com/abhisek/readiz/internal/screens/results"
	"github.com/abhisek/readiz/internal/screens/role"
	"github.com/abhisek/readiz/internal/screens/student"
	"github.com/abhisek/readiz/internal/screens/welcome"
	"github.com/abhisek/readiz/internal/tutor"
	"github.com/abhisek/readiz/internal/ui/layout"
)

// outcomeMsg carries a finished task back to the UI goroutine.
type outcomeMsg struct {
	outcome tutor.Outcome
}

// Options configures the root model.
type Options struct {
	// SkipSplash starts on role selection instead of the welcome screen.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	machine *tutor.Machine
	router  *router.Router
	ctx     context.Context
	shown   tutor.State
	width   int
	height  int
}

// New creates the root model for machine. Tasks run under ctx.
func New(ctx context.Context, machine *tutor.Machine, opts Options) *AppModel {
	m := &AppModel{machine: machine, ctx: ctx, shown: machine.State()}
	first := ScreenFor(machine)
	if !opts.SkipSplash && machine.State() == tutor.StateRoleSelection {
		first = welcome.New(func() screen.Screen { return ScreenFor(machine) })
	}
	m.router = router.New(first)
	return m
}

// ScreenFor builds the screen for the machine's current state.
func ScreenFor(machine *tutor.Machine) screen.Screen {
	snap := machine.Snapshot()
	switch snap.State {
	case tutor.StateStudentDashboard:
		return student.New(machine.Materials())
	case tutor.StateInstructorDashboard:
		return instructor.New(machine.Materials())
	case tutor.StateLoading:
		return loading.New(snap.Stage, snap.SessionTitle())
	case tutor.StateReadingSession:
		return reading.New(snap)
	case tutor.StateResults:
		return results.New(snap)
	case tutor.StateError:
		return failure.New(snap.ErrorMessage)
	default:
		return role.New()
	}
}

func (m *AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case screen.IntentMsg:
		return m, m.apply(msg.Apply)

	case outcomeMsg:
		if !m.machine.Resolve(msg.outcome) {
			return m, nil
		}
		return m, m.sync(nil)
	}

	return m, m.router.Update(msg)
}

// apply runs an intent on the machine and starts any task it returns.
func (m *AppModel) apply(intent screen.Intent) tea.Cmd {
	task, err := intent(m.machine)
	if err != nil {
		logger.Get().Debug("intent rejected",
			zap.Stringer("state", m.machine.State()),
			zap.Error(err))
	}
	cmd := m.sync(err)
	if task == nil {
		return cmd
	}
	return tea.Batch(cmd, m.run(task))
}

func (m *AppModel) run(task *tutor.Task) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return outcomeMsg{outcome: task.Run(ctx)}
	}
}

// sync swaps the screen when the state changed, otherwise tells the
// active screen how its intent went.
func (m *AppModel) sync(err error) tea.Cmd {
	if state := m.machine.State(); state != m.shown {
		m.shown = state
		return m.router.Replace(ScreenFor(m.machine))
	}
	return m.router.Update(screen.AppliedMsg{Snapshot: m.machine.Snapshot(), Err: err})
}

func (m *AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if p, ok := active.(screen.KeyHintProvider); ok {
			hints = p.KeyHints()
		}
	}
	if len(hints) == 0 {
		hints = []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}

	status := ""
	if r := m.machine.Snapshot().Role; r != tutor.RoleNone {
		status = r.String()
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, machine *tutor.Machine, opts Options) error {
	p := tea.NewProgram(New(ctx, machine, opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
