package tasktree

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ExecFunc is the unit of work carried by a task. It receives the
// task's effective context payload (see Task.Context) and the result
// produced by the previously executed task, and returns the result
// handed to the next one. Returning an error fails the task and
// aborts the run.
type ExecFunc func(ctx context.Context, payload any, prev any) (any, error)

// Task is a node in an n-ary execution tree. Grouping tasks carry no
// ExecFunc and exist only to organize children; executable tasks do
// the work. Children are owned by the task holding them in its child
// list; the parent link is a non-owning back-reference used for
// context inheritance and ancestor enumeration.
type Task struct {
	id       string
	title    string
	exec     ExecFunc
	payload  any
	children []*Task
	parent   *Task
	stage    *Stage
}

// Option configures a Task at construction time.
type Option func(*Task)

// WithExec attaches the unit of work to the task.
func WithExec(fn ExecFunc) Option {
	return func(t *Task) { t.exec = fn }
}

// WithContext attaches an arbitrary context payload to the task.
// Descendants without their own payload inherit it.
func WithContext(payload any) Option {
	return func(t *Task) { t.payload = payload }
}

// WithChildren appends child tasks in execution order.
func WithChildren(children ...*Task) Option {
	return func(t *Task) { t.AddChildren(children...) }
}

// New constructs a task with a freshly generated identity, no parent,
// and no stage. The title must be non-empty; New panics otherwise
// because an untitled task is a programming error, not a runtime
// condition.
func New(title string, opts ...Option) *Task {
	if strings.TrimSpace(title) == "" {
		panic("tasktree: task title must not be empty")
	}
	t := &Task{
		id:    uuid.NewString(),
		title: title,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the task's opaque unique identity.
func (t *Task) ID() string { return t.id }

// Title returns the task's human-readable label.
func (t *Task) Title() string { return t.title }

// Parent returns the task's parent, or nil for the root.
func (t *Task) Parent() *Task { return t.parent }

// Children returns the ordered child list. The slice is shared with
// the task; callers must not mutate it.
func (t *Task) Children() []*Task { return t.children }

// Stage returns the task's current lifecycle stage, or nil if the
// task has not been reached by a run yet.
func (t *Task) Stage() *Stage { return t.stage }

// Executable reports whether the task carries a unit of work.
func (t *Task) Executable() bool { return t.exec != nil }

// AddChildren appends children in execution order and reparents each
// one to t, overwriting any previously set parent.
func (t *Task) AddChildren(children ...*Task) {
	for _, child := range children {
		if child == nil {
			continue
		}
		child.parent = t
		t.children = append(t.children, child)
	}
}

// Attach rewires parent back-references for every descendant of t so
// that a tree assembled from nested literals carries correct links
// throughout. It is idempotent, and the last attachment wins: a child
// moved between parents ends up pointing at whichever parent holds it.
func (t *Task) Attach() {
	for _, child := range t.children {
		if child == nil {
			continue
		}
		child.parent = t
		child.Attach()
	}
}

// Ancestors returns the task's ancestor chain ordered from the most
// distant ancestor (the root) to the immediate parent. The root has
// no ancestors.
func (t *Task) Ancestors() []*Task {
	var chain []*Task
	for p := t.parent; p != nil; p = p.parent {
		chain = append(chain, p)
	}
	slices.Reverse(chain)
	return chain
}

// Context resolves the task's effective context payload: its own
// payload if set, otherwise the nearest ancestor's payload, otherwise
// nil.
func (t *Task) Context() any {
	for n := t; n != nil; n = n.parent {
		if n.payload != nil {
			return n.payload
		}
	}
	return nil
}
