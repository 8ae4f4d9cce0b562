package tutor

import (
	"context"

	"github.com/abhisek/readiz/internal/reading"
)

type taskKind int

const (
	taskGenerate taskKind = iota + 1
	taskEvaluate
)

// Task is adapter work started by an intent. Run it off the UI goroutine
// and hand the Outcome to Machine.Resolve.
type Task struct {
	ticket uint64
	kind   taskKind
	abort  context.Context
	run    func(ctx context.Context) Outcome
}

// Ticket identifies the task. Only the latest ticket can resolve.
func (t *Task) Ticket() uint64 { return t.ticket }

// Run performs the task's I/O. It does not touch the machine. Machine.Cancel
// cancels the context passed to the adapters.
func (t *Task) Run(ctx context.Context) Outcome {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if t.abort.Err() != nil {
		cancel()
	}
	stop := context.AfterFunc(t.abort, cancel)
	defer stop()

	out := t.run(ctx)
	out.ticket = t.ticket
	out.kind = t.kind
	return out
}

// Outcome is the result of a Task.
type Outcome struct {
	ticket uint64
	kind   taskKind

	Session *reading.SessionData
	Result  *reading.EvaluationResult
	Err     error
}

// Ticket returns the ticket of the task that produced the outcome.
func (o Outcome) Ticket() uint64 { return o.ticket }
