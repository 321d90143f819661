package tasktree

// Node is the read-only projection of a task subtree, suitable for
// JSON encoding to drive an external progress view. It can be derived
// at any point before, during, or after a run without mutating the
// tree.
type Node struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Stage    *StageView `json:"stage,omitempty"`
	Children []Node     `json:"children,omitempty"`
}

// StageView is the serialized form of a Stage. Errors are flattened to
// their message.
type StageView struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Snapshot projects the task and its descendants into Nodes. Tasks
// that have not been reached by a run carry no stage.
func Snapshot(t *Task) Node {
	node := Node{
		ID:    t.id,
		Title: t.title,
	}
	if t.stage != nil {
		node.Stage = viewOf(*t.stage)
	}
	if len(t.children) > 0 {
		node.Children = make([]Node, 0, len(t.children))
		for _, child := range t.children {
			node.Children = append(node.Children, Snapshot(child))
		}
	}
	return node
}

func viewOf(s Stage) *StageView {
	view := &StageView{
		Kind:    s.Kind,
		Message: s.Message,
		Data:    s.Data,
	}
	if s.Err != nil {
		view.Error = s.Err.Error()
	}
	return view
}
