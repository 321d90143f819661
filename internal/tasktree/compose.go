package tasktree

// Factory produces a dependency task for Compose. Each factory is
// called exactly once, in order.
type Factory func() *Task

// Compose builds a synthetic root for a unit of work that depends on
// other tasks: the root carries no executable, the dependency tasks
// come first in declaration order, and a final child wrapping primary
// under the same title runs last. Every child is reparented to the
// root, overwriting whatever parent a factory may have set. Execution
// semantics are unchanged; the tree still runs in plain declared
// order.
func Compose(title string, primary ExecFunc, payload any, deps ...Factory) *Task {
	root := New(title, WithContext(payload))
	children := make([]*Task, 0, len(deps)+1)
	for _, factory := range deps {
		children = append(children, factory())
	}
	children = append(children, New(title, WithExec(primary)))
	root.AddChildren(children...)
	return root
}
