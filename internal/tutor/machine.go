// Package tutor is the application state machine: roles, dashboards, the
// reading session, results, and the error screen. It runs on the UI
// goroutine; adapter calls happen in Tasks whose Outcomes come back
// through Resolve.
package tutor

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/readiz/internal/extract"
	"github.com/abhisek/readiz/internal/logger"
	"github.com/abhisek/readiz/internal/material"
	"github.com/abhisek/readiz/internal/reading"
)

// SessionGenerator produces reading sessions.
type SessionGenerator interface {
	FromTopic(ctx context.Context, topic string) (*reading.SessionData, error)
	FromPassage(ctx context.Context, passage string) (*reading.SessionData, error)
}

// AnswerEvaluator grades a finished session.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, passage string, questions []reading.Question, answers reading.UserAnswers) (*reading.EvaluationResult, error)
}

// Deps are the adapters the machine drives.
type Deps struct {
	Materials *material.Repository
	Extractor extract.PassageExtractor
	Generator SessionGenerator
	Evaluator AnswerEvaluator
}

// Machine holds application state. It is not safe for concurrent use.
type Machine struct {
	deps Deps

	state    State
	role     Role
	stage    Stage
	session  *reading.SessionData
	answers  reading.UserAnswers
	index    int
	result   *reading.EvaluationResult
	material *reading.ReadingMaterial
	topic    string
	errMsg   string

	lastTicket  uint64
	inflight    uint64
	inflightFor taskKind
	abort       context.CancelFunc
}

// New creates a Machine in StateRoleSelection.
func New(deps Deps) *Machine {
	if deps.Materials == nil {
		deps.Materials = material.NewRepository()
	}
	return &Machine{deps: deps, state: StateRoleSelection}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Materials returns the shared material repository.
func (m *Machine) Materials() *material.Repository { return m.deps.Materials }

// Snapshot returns a copy of the machine for rendering.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		State:         m.state,
		Role:          m.role,
		Stage:         m.stage,
		Session:       m.session,
		QuestionIndex: m.index,
		Result:        m.result,
		Topic:         m.topic,
		ErrorMessage:  m.errMsg,
	}
	if m.answers != nil {
		s.Answers = m.answers.Clone()
	}
	if m.material != nil {
		mat := *m.material
		s.Material = &mat
	}
	return s
}

// SelectRole leaves role selection for the role's dashboard.
func (m *Machine) SelectRole(r Role) error {
	if err := m.require(StateRoleSelection); err != nil {
		return err
	}
	switch r {
	case RoleStudent:
		m.role = r
		m.transition(StateStudentDashboard, "select-role")
	case RoleInstructor:
		m.role = r
		m.transition(StateInstructorDashboard, "select-role")
	default:
		return ErrInvalidTransition
	}
	return nil
}

// SelectTopic starts a session about topic.
func (m *Machine) SelectTopic(topic string) (*Task, error) {
	if err := m.require(StateStudentDashboard); err != nil {
		return nil, err
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrInvalidTransition
	}

	gen := m.deps.Generator
	task := m.begin(taskGenerate, StageGenerating, func(ctx context.Context) Outcome {
		session, err := gen.FromTopic(ctx, topic)
		return Outcome{Session: session, Err: err}
	})
	m.topic = topic
	m.material = nil
	m.transition(StateLoading, "select-topic")
	return task, nil
}

// SelectMaterial starts a session over the material with id. Extraction,
// the minimum-length check, and question generation all run in the task.
func (m *Machine) SelectMaterial(id string) (*Task, error) {
	if err := m.require(StateStudentDashboard); err != nil {
		return nil, err
	}
	mat, ok := m.deps.Materials.Get(id)
	if !ok {
		return nil, ErrUnknownMaterial
	}

	stage := StageExtracting
	if mat.Content.Kind() == reading.KindText {
		stage = StageGenerating
	}

	ext, gen := m.deps.Extractor, m.deps.Generator
	task := m.begin(taskGenerate, stage, func(ctx context.Context) Outcome {
		text, err := ext.Extract(ctx, mat.Content)
		if err != nil {
			return Outcome{Err: err}
		}
		passage, err := extract.CheckPassage(mat.Content.Kind(), text)
		if err != nil {
			return Outcome{Err: err}
		}
		session, err := gen.FromPassage(ctx, passage)
		return Outcome{Session: session, Err: err}
	})
	m.material = &mat
	m.topic = ""
	m.transition(StateLoading, "select-material")
	return task, nil
}

// AddMaterial validates d and appends it to the shared list. Form errors
// are returned as *material.FormError and leave the state alone.
func (m *Machine) AddMaterial(d material.Draft) (reading.ReadingMaterial, error) {
	if err := m.require(StateInstructorDashboard); err != nil {
		return reading.ReadingMaterial{}, err
	}
	return m.deps.Materials.Add(d)
}

// Answer records value as the answer to question qid.
func (m *Machine) Answer(qid, value string) error {
	if err := m.require(StateReadingSession); err != nil {
		return err
	}
	if _, ok := m.session.Question(qid); !ok {
		return ErrUnknownQuestion
	}
	m.answers[qid] = value
	return nil
}

// Next moves to the following question. The current question must be
// answered, and the last question has no next.
func (m *Machine) Next() error {
	if err := m.require(StateReadingSession); err != nil {
		return err
	}
	if m.index >= len(m.session.Questions)-1 {
		return ErrLastQuestion
	}
	q := m.session.Questions[m.index]
	if strings.TrimSpace(m.answers[q.ID]) == "" {
		return ErrAnswerRequired
	}
	m.index++
	return nil
}

// Prev moves to the previous question.
func (m *Machine) Prev() error {
	if err := m.require(StateReadingSession); err != nil {
		return err
	}
	if m.index == 0 {
		return ErrFirstQuestion
	}
	m.index--
	return nil
}

// Submit sends the answers for grading. Every question must be answered.
func (m *Machine) Submit() (*Task, error) {
	if err := m.require(StateReadingSession); err != nil {
		return nil, err
	}
	if !m.answers.Covers(m.session.Questions) {
		return nil, ErrIncompleteAnswers
	}

	eval := m.deps.Evaluator
	passage := m.session.Passage
	questions := append([]reading.Question(nil), m.session.Questions...)
	answers := m.answers.Clone()

	task := m.begin(taskEvaluate, StageEvaluating, func(ctx context.Context) Outcome {
		result, err := eval.Evaluate(ctx, passage, questions, answers)
		return Outcome{Result: result, Err: err}
	})
	m.transition(StateLoading, "submit")
	return task, nil
}

// Restart clears the session, result, material, and error and returns to
// the student dashboard. Allowed from results, the error screen, and an
// open reading session.
func (m *Machine) Restart() error {
	if err := m.require(StateResults, StateError, StateReadingSession); err != nil {
		return err
	}
	m.clear()
	m.role = RoleStudent
	m.transition(StateStudentDashboard, "restart")
	return nil
}

// SwitchRole clears everything and returns to role selection.
func (m *Machine) SwitchRole() error {
	if m.state == StateLoading {
		return ErrBusy
	}
	m.clear()
	m.role = RoleNone
	m.transition(StateRoleSelection, "switch-role")
	return nil
}

// Cancel abandons the in-flight task. Its outcome will be stale. A
// cancelled evaluation returns to the reading session with answers kept;
// a cancelled generation returns to the student dashboard.
func (m *Machine) Cancel() bool {
	if m.state != StateLoading {
		return false
	}
	kind := m.inflightFor
	m.dropTask()

	if kind == taskEvaluate && m.session != nil {
		m.transition(StateReadingSession, "cancel")
		return true
	}
	m.clear()
	m.transition(StateStudentDashboard, "cancel")
	return true
}

// Resolve applies a task outcome. It returns false, changing nothing,
// when the outcome is stale: its task was cancelled or superseded.
func (m *Machine) Resolve(o Outcome) bool {
	if m.state != StateLoading || o.ticket == 0 || o.ticket != m.inflight {
		logger.Get().Debug("stale task outcome dropped",
			zap.Uint64("ticket", o.ticket),
			zap.Uint64("inflight", m.inflight),
			zap.Stringer("state", m.state))
		return false
	}
	m.dropTask()

	if o.Err != nil {
		m.errMsg = failureMessage(o.kind, o.Err)
		logger.Get().Warn("task failed",
			zap.Stringer("state", m.state),
			zap.String("message", m.errMsg),
			zap.Error(o.Err))
		m.transition(StateError, "resolve")
		return true
	}

	switch o.kind {
	case taskGenerate:
		if o.Session == nil {
			m.errMsg = MsgGenerationFailed
			m.transition(StateError, "resolve")
			return true
		}
		m.session = o.Session
		m.answers = make(reading.UserAnswers, len(o.Session.Questions))
		m.index = 0
		m.result = nil
		m.transition(StateReadingSession, "resolve")
	case taskEvaluate:
		if o.Result == nil {
			m.errMsg = MsgEvaluationFailed
			m.transition(StateError, "resolve")
			return true
		}
		m.result = o.Result
		m.transition(StateResults, "resolve")
	}
	return true
}

func (m *Machine) begin(kind taskKind, stage Stage, run func(ctx context.Context) Outcome) *Task {
	abort, cancel := context.WithCancel(context.Background())
	m.lastTicket++
	m.inflight = m.lastTicket
	m.inflightFor = kind
	m.abort = cancel
	m.stage = stage
	m.errMsg = ""
	return &Task{ticket: m.inflight, kind: kind, abort: abort, run: run}
}

func (m *Machine) dropTask() {
	if m.abort != nil {
		m.abort()
	}
	m.abort = nil
	m.inflight = 0
	m.inflightFor = 0
	m.stage = StageNone
}

func (m *Machine) clear() {
	m.session = nil
	m.answers = nil
	m.index = 0
	m.result = nil
	m.material = nil
	m.topic = ""
	m.errMsg = ""
}

// require rejects the intent unless the machine is in one of states.
func (m *Machine) require(states ...State) error {
	if m.state == StateLoading {
		return ErrBusy
	}
	for _, s := range states {
		if m.state == s {
			return nil
		}
	}
	return ErrInvalidTransition
}

func (m *Machine) transition(to State, intent string) {
	logger.Get().Debug("state transition",
		zap.String("intent", intent),
		zap.Stringer("from", m.state),
		zap.Stringer("to", to),
		zap.Stringer("role", m.role))
	m.state = to
}

// failureMessage maps an adapter error to the message shown on the error
// screen.
func failureMessage(kind taskKind, err error) string {
	var xerr *extract.Error
	if errors.As(err, &xerr) {
		switch xerr.Kind {
		case extract.KindURLUnreadable:
			return MsgURLUnreadable
		case extract.KindCorruptOrUnreadable:
			return MsgFileUnreadable
		case extract.KindTextTooShort:
			return MsgTextTooShort
		}
	}
	if kind == taskEvaluate {
		return MsgEvaluationFailed
	}
	return MsgGenerationFailed
}
