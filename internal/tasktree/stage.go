package tasktree

// Kind identifies a lifecycle stage. The completion kinds are reserved
// for the root of an executed tree.
type Kind string

const (
	KindRunning          Kind = "running"
	KindSuccess          Kind = "success"
	KindFailed           Kind = "failed"
	KindSuccessCompleted Kind = "success_completed"
	KindFailedCompleted  Kind = "failed_completed"
)

// Stage is a lifecycle snapshot of a task. Use the constructor
// functions below so each kind carries the payload that belongs to it.
type Stage struct {
	Kind    Kind
	Message string
	Data    any
	Err     error
}

// Running marks a task as currently executing.
func Running(message string) Stage {
	return Stage{Kind: KindRunning, Message: message}
}

// Success marks a task's executable as returned normally, carrying its
// result.
func Success(message string, data any) Stage {
	return Stage{Kind: KindSuccess, Message: message, Data: data}
}

// Failed marks a task's executable as failed. The error message stands
// in when no explicit message is given.
func Failed(message string, err error) Stage {
	if message == "" && err != nil {
		message = err.Error()
	}
	return Stage{Kind: KindFailed, Message: message, Err: err}
}

// SuccessCompleted is the terminal root stage of a run in which no
// task failed, carrying the final result.
func SuccessCompleted(data any) Stage {
	return Stage{Kind: KindSuccessCompleted, Data: data}
}

// FailedCompleted is the terminal root stage of a run aborted by a
// task failure, carrying the captured error.
func FailedCompleted(err error) Stage {
	return Stage{Kind: KindFailedCompleted, Err: err}
}

// Terminal reports whether the stage is one of the run-level
// completion stages.
func (s Stage) Terminal() bool {
	return s.Kind == KindSuccessCompleted || s.Kind == KindFailedCompleted
}

// Failure reports whether the stage records a failure.
func (s Stage) Failure() bool {
	return s.Kind == KindFailed || s.Kind == KindFailedCompleted
}

// forAncestor returns the copy of the stage delivered to ancestors:
// same kind and payloads, message cleared, so observers see that
// something changed below without inheriting the leaf's wording.
func (s Stage) forAncestor() Stage {
	s.Message = ""
	return s
}
