package history

import "time"

// Status represents the lifecycle of a recorded run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one recorded plan execution.
type Run struct {
	ID           string
	PlanTitle    string
	PlanPath     string
	Status       Status
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// Event is one stage transition observed during a run.
type Event struct {
	ID        int64
	RunID     string
	TaskID    string
	TaskTitle string
	Kind      string
	Message   string
	CreatedAt time.Time
}

// Duration returns the run's wall-clock duration, or zero while it is
// still in flight.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
