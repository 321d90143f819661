package tasktree

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"treerun/internal/logging"
)

// Observer receives every stage transition during a run. For each
// transitioned task it is invoked once per ancestor (root first, with
// the message cleared) and then once for the task itself. It runs on
// the executing goroutine and must not block.
type Observer func(stage Stage, task *Task)

// RunOptions controls a single tree execution.
type RunOptions struct {
	Logger        *slog.Logger
	OnStageChange Observer
	InitialResult any
}

// Run executes every executable-bearing task reachable from root in
// depth-first pre-order, threading each task's result into the next.
// The first failure aborts the remaining walk and is returned after
// the root has received its terminal stage; otherwise Run returns the
// last result. The root receives success_completed or failed_completed
// exactly once per invocation.
func Run(ctx context.Context, root *Task, opts RunOptions) (any, error) {
	if root == nil {
		return nil, errors.New("tasktree: root task is required")
	}
	root.Attach()

	logger := logging.NewComponentLogger(opts.Logger, "tasktree")
	tasks := collect(root)

	setStage := func(task *Task, stage Stage) {
		task.stage = &stage
		if opts.OnStageChange == nil {
			return
		}
		for _, ancestor := range task.Ancestors() {
			opts.OnStageChange(stage.forAncestor(), ancestor)
		}
		opts.OnStageChange(stage, task)
	}

	logger.Info(
		"run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String(logging.FieldTask, root.title),
		logging.Int("executable_tasks", len(tasks)),
	)

	last := opts.InitialResult
	var runErr error
	for _, task := range tasks {
		setStage(task, Running(fmt.Sprintf("running task [%s]...", task.title)))
		logger.Info(
			"task started",
			logging.String(logging.FieldEventType, "stage_start"),
			logging.String(logging.FieldTask, task.title),
		)

		result, err := task.invoke(ctx, last)
		if err != nil {
			setStage(task, Failed(fmt.Sprintf("task [%s] failed", task.title), err))
			logger.Error(
				"task failed",
				logging.String(logging.FieldEventType, "stage_failure"),
				logging.String(logging.FieldTask, task.title),
				logging.Error(err),
			)
			runErr = err
			break
		}

		last = result
		setStage(task, Success(fmt.Sprintf("task [%s] succeeded", task.title), result))
		logger.Info(
			"task succeeded",
			logging.String(logging.FieldEventType, "stage_complete"),
			logging.String(logging.FieldTask, task.title),
		)
	}

	if runErr != nil {
		setStage(root, FailedCompleted(runErr))
		logger.Error(
			"run failed",
			logging.String(logging.FieldEventType, "run_complete"),
			logging.String(logging.FieldTask, root.title),
			logging.Error(runErr),
		)
		return nil, runErr
	}

	setStage(root, SuccessCompleted(last))
	logger.Info(
		"run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String(logging.FieldTask, root.title),
	)
	return last, nil
}

// collect gathers the executable-bearing tasks reachable from root in
// depth-first pre-order. Child-list order is execution order.
func collect(root *Task) []*Task {
	var tasks []*Task
	var walk func(*Task)
	walk = func(t *Task) {
		if t.exec != nil {
			tasks = append(tasks, t)
		}
		for _, child := range t.children {
			walk(child)
		}
	}
	walk(root)
	return tasks
}

// invoke runs the task's executable with its effective context. A
// panic inside the executable is converted into an error so the run
// still finalizes the root stage and surfaces the failure to the
// caller.
func (t *Task) invoke(ctx context.Context, prev any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task [%s] panicked: %v", t.title, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return t.exec(ctx, t.Context(), prev)
}
