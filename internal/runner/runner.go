package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"treerun/internal/config"
	"treerun/internal/history"
	"treerun/internal/logging"
	"treerun/internal/plan"
	"treerun/internal/services"
	"treerun/internal/tasktree"
)

// ErrRunInProgress is returned when the run lock is already held.
var ErrRunInProgress = errors.New("another treerun run is already in progress")

// Runner executes plans. The history store is optional; a nil store
// disables recording.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *history.Store
}

// Result summarizes one execution.
type Result struct {
	RunID    string
	Plan     string
	Output   any
	Snapshot tasktree.Node
}

// New constructs a runner with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger, store *history.Store) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("runner requires config")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "runner"),
		store:  store,
	}, nil
}

// Execute runs the plan at planPath. The returned Result is non-nil
// whenever the plan loaded, including for failed runs, so callers can
// inspect the final tree.
func (r *Runner) Execute(ctx context.Context, planPath string) (*Result, error) {
	p, err := plan.Load(planPath)
	if err != nil {
		return nil, err
	}
	root := plan.Build(r.cfg, p)

	lock := flock.New(filepath.Join(r.cfg.Paths.LogDir, "treerun.lock"))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !held {
		return nil, ErrRunInProgress
	}
	defer func() { _ = lock.Unlock() }()

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithPlan(ctx, p.Title)
	logger := logging.WithContext(ctx, r.logger)

	// History writes must survive a canceled run context so the final
	// stage transitions are not lost.
	recordCtx := context.WithoutCancel(ctx)
	if r.store != nil {
		if _, err := r.store.StartRun(recordCtx, runID, p.Title, planPath); err != nil {
			return nil, err
		}
	}

	output, runErr := tasktree.Run(ctx, root, tasktree.RunOptions{
		Logger:        logger,
		OnStageChange: r.recordStage(recordCtx, logger, runID),
	})

	if r.store != nil {
		status := history.StatusCompleted
		message := ""
		if runErr != nil {
			status = history.StatusFailed
			message = services.Message(runErr)
		}
		if err := r.store.FinishRun(recordCtx, runID, status, message); err != nil {
			logger.Error("failed to finalize run record", logging.Error(err))
		}
		if r.cfg.History.RetentionRuns > 0 {
			if err := r.store.Prune(recordCtx, r.cfg.History.RetentionRuns); err != nil {
				logger.Warn("failed to prune run history", logging.Error(err))
			}
		}
	}

	result := &Result{
		RunID:    runID,
		Plan:     p.Title,
		Output:   output,
		Snapshot: tasktree.Snapshot(root),
	}
	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

// recordStage persists every transition for the task itself; ancestor
// copies only update the live view and are skipped to keep the event
// log one row per transition.
func (r *Runner) recordStage(ctx context.Context, logger *slog.Logger, runID string) tasktree.Observer {
	if r.store == nil {
		return nil
	}
	return func(stage tasktree.Stage, task *tasktree.Task) {
		if stage.Message == "" && !stage.Terminal() {
			return
		}
		message := stage.Message
		if stage.Err != nil {
			message = services.Message(stage.Err)
		}
		if err := r.store.RecordEvent(ctx, runID, task.ID(), task.Title(), string(stage.Kind), message); err != nil {
			logger.Warn("failed to record stage event", logging.Error(err))
		}
	}
}
