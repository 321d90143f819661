package history

import (
	"context"
	"testing"

	"treerun/internal/testsupport"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.StartRun(ctx, "run-1", "nightly", "/plans/nightly.toml")
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	if run.Status != StatusRunning || run.FinishedAt != nil {
		t.Fatalf("fresh run = %+v", run)
	}

	if err := store.FinishRun(ctx, "run-1", StatusCompleted, ""); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	got, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status = %s, want completed", got.Status)
	}
	if got.FinishedAt == nil || got.Duration() < 0 {
		t.Fatalf("finished run = %+v", got)
	}
}

func TestFailedRunKeepsErrorMessage(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.StartRun(ctx, "run-2", "deploy", "/plans/deploy.toml"); err != nil {
		t.Fatalf("start run: %v", err)
	}
	if err := store.FinishRun(ctx, "run-2", StatusFailed, "task [bad] failed"); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	got, err := store.GetRun(ctx, "run-2")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got.Status != StatusFailed || got.ErrorMessage != "task [bad] failed" {
		t.Fatalf("run = %+v", got)
	}
}

func TestEventsOrderedOldestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.StartRun(ctx, "run-3", "p", "/p.toml"); err != nil {
		t.Fatal(err)
	}
	for _, kind := range []string{"running", "success", "success_completed"} {
		if err := store.RecordEvent(ctx, "run-3", "task-a", "step", kind, ""); err != nil {
			t.Fatalf("record event: %v", err)
		}
	}

	events, err := store.Events(ctx, "run-3")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Kind != "running" || events[2].Kind != "success_completed" {
		t.Fatalf("event order = %v", events)
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.StartRun(ctx, id, "p", "/p.toml"); err != nil {
			t.Fatal(err)
		}
		if err := store.FinishRun(ctx, id, StatusCompleted, ""); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].StartedAt.Before(runs[1].StartedAt) {
		t.Fatalf("runs not newest-first: %+v", runs)
	}
}

func TestPruneKeepsNewestFinishedRuns(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, id := range []string{"old", "mid", "new"} {
		if _, err := store.StartRun(ctx, id, "p", "/p.toml"); err != nil {
			t.Fatal(err)
		}
		if err := store.FinishRun(ctx, id, StatusCompleted, ""); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.StartRun(ctx, "inflight", "p", "/p.toml"); err != nil {
		t.Fatal(err)
	}

	if err := store.Prune(ctx, 2); err != nil {
		t.Fatalf("prune: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	// Two newest finished runs plus the in-flight one survive.
	if len(runs) != 3 {
		t.Fatalf("got %d runs after prune, want 3", len(runs))
	}
	for _, run := range runs {
		if run.ID == "old" {
			t.Fatal("oldest run survived prune")
		}
	}
}
