package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/readiz/internal/extract"
	"github.com/abhisek/readiz/internal/llm"
	"github.com/abhisek/readiz/internal/material"
	"github.com/abhisek/readiz/internal/reading"
	"github.com/abhisek/readiz/internal/reading/readingtest"
	"github.com/abhisek/readiz/internal/screen"
	"github.com/abhisek/readiz/internal/tutor"
)

type stubGenerator struct{}

func (stubGenerator) FromTopic(context.Context, string) (*reading.SessionData, error) {
	s := readingtest.Session()
	return &s, nil
}

func (stubGenerator) FromPassage(_ context.Context, passage string) (*reading.SessionData, error) {
	s := readingtest.Session()
	s.Passage = passage
	return &s, nil
}

type stubEvaluator struct{}

func (stubEvaluator) Evaluate(context.Context, string, []reading.Question, reading.UserAnswers) (*reading.EvaluationResult, error) {
	r := readingtest.Evaluation(3)
	return &r, nil
}

func newTestModel(t *testing.T) *AppModel {
	t.Helper()
	machine := tutor.New(tutor.Deps{
		Materials: material.NewRepository(material.Sample()),
		Extractor: extract.New(llm.NewMockProvider(), nil, extract.DefaultConfig()),
		Generator: stubGenerator{},
		Evaluator: stubEvaluator{},
	})
	m := New(context.Background(), machine, Options{SkipSplash: true})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func act(fn func(m *tutor.Machine) error) screen.IntentMsg {
	return screen.IntentMsg{Apply: func(m *tutor.Machine) (*tutor.Task, error) { return nil, fn(m) }}
}

func start(fn func(m *tutor.Machine) (*tutor.Task, error)) screen.IntentMsg {
	return screen.IntentMsg{Apply: fn}
}

// findOutcome runs the commands produced by cmd and returns the task
// outcome among their messages.
func findOutcome(t *testing.T, cmd tea.Cmd) outcomeMsg {
	t.Helper()
	found := make(chan outcomeMsg, 1)
	var launch func(c tea.Cmd)
	launch = func(c tea.Cmd) {
		if c == nil {
			return
		}
		go func() {
			switch msg := c().(type) {
			case tea.BatchMsg:
				for _, inner := range msg {
					launch(inner)
				}
			case outcomeMsg:
				found <- msg
			}
		}()
	}
	launch(cmd)

	select {
	case o := <-found:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("no task outcome produced")
		return outcomeMsg{}
	}
}

func activeTitle(m *AppModel) string {
	return m.router.Active().Title()
}

func TestStartScreen(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, "Welcome", activeTitle(m))

	machine := tutor.New(tutor.Deps{})
	splash := New(context.Background(), machine, Options{})
	assert.Equal(t, "", activeTitle(splash), "splash screen has no title")
}

func TestFullSession(t *testing.T) {
	m := newTestModel(t)

	m.Update(act(func(mc *tutor.Machine) error { return mc.SelectRole(tutor.RoleStudent) }))
	require.Equal(t, "Student Dashboard", activeTitle(m))

	_, cmd := m.Update(start(func(mc *tutor.Machine) (*tutor.Task, error) { return mc.SelectTopic("Science") }))
	require.Equal(t, "Please wait", activeTitle(m))

	m.Update(findOutcome(t, cmd))
	require.Equal(t, tutor.StateReadingSession, m.machine.State())
	assert.Equal(t, "Science", activeTitle(m))
	assert.Contains(t, m.router.View(100, 34), "Question 1 of 4")

	for id, a := range readingtest.Answers() {
		m.Update(act(func(mc *tutor.Machine) error { return mc.Answer(id, a) }))
	}
	_, cmd = m.Update(start(func(mc *tutor.Machine) (*tutor.Task, error) { return mc.Submit() }))
	require.Equal(t, tutor.StateLoading, m.machine.State())

	m.Update(findOutcome(t, cmd))
	require.Equal(t, "Results", activeTitle(m))
	assert.Contains(t, m.router.View(100, 34), "3 / 4")

	m.Update(act(func(mc *tutor.Machine) error { return mc.Restart() }))
	assert.Equal(t, "Student Dashboard", activeTitle(m))
}

func TestRejectedIntentReachesScreen(t *testing.T) {
	m := newTestModel(t)
	m.Update(act(func(mc *tutor.Machine) error { return mc.SelectRole(tutor.RoleStudent) }))
	_, cmd := m.Update(start(func(mc *tutor.Machine) (*tutor.Task, error) { return mc.SelectTopic("History") }))
	m.Update(findOutcome(t, cmd))

	m.Update(act(func(mc *tutor.Machine) error { return mc.Next() }))
	assert.Equal(t, tutor.StateReadingSession, m.machine.State())
	assert.Contains(t, m.router.View(100, 34), "Answer this question before moving on.")
}

func TestStaleOutcomeIgnored(t *testing.T) {
	m := newTestModel(t)
	m.Update(act(func(mc *tutor.Machine) error { return mc.SelectRole(tutor.RoleStudent) }))
	_, cmd := m.Update(start(func(mc *tutor.Machine) (*tutor.Task, error) { return mc.SelectTopic("History") }))

	m.Update(act(func(mc *tutor.Machine) error {
		mc.Cancel()
		return nil
	}))
	require.Equal(t, "Student Dashboard", activeTitle(m))

	m.Update(findOutcome(t, cmd))
	assert.Equal(t, "Student Dashboard", activeTitle(m))
	assert.Equal(t, tutor.StateStudentDashboard, m.machine.State())
}

func TestScreenForEveryState(t *testing.T) {
	m := newTestModel(t)
	machine := m.machine

	assert.Equal(t, "Welcome", ScreenFor(machine).Title())
	require.NoError(t, machine.SelectRole(tutor.RoleInstructor))
	assert.Equal(t, "Instructor Dashboard", ScreenFor(machine).Title())
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}
