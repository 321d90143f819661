package services

import (
	"context"
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrExternalTool, "runner", "run command", "rsync failed", cause)

	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("error %v does not match ErrExternalTool", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("error %v does not wrap cause", err)
	}
	want := "external tool error: runner: run command: rsync failed: exit status 1"
	if err.Error() != want {
		t.Fatalf("error = %q, want %q", err.Error(), want)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("error %v does not match ErrTransient", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("error = %q", err.Error())
	}
}

func TestMessageStripsMarker(t *testing.T) {
	err := Wrap(ErrValidation, "plan", "load", "title is required", nil)
	if got := Message(err); got != "plan: load: title is required" {
		t.Fatalf("Message = %q", got)
	}
	if got := Message(errors.New("plain")); got != "plain" {
		t.Fatalf("Message(plain) = %q", got)
	}
	if got := Message(nil); got != "" {
		t.Fatalf("Message(nil) = %q", got)
	}
}

func TestContextCarriers(t *testing.T) {
	ctx := context.Background()
	if _, ok := RunIDFromContext(ctx); ok {
		t.Fatal("unexpected run id on empty context")
	}

	ctx = WithRunID(ctx, "run-1")
	ctx = WithPlan(ctx, "nightly backup")
	ctx = WithTask(ctx, "sync photos")

	if id, ok := RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("run id = %q, %v", id, ok)
	}
	if plan, ok := PlanFromContext(ctx); !ok || plan != "nightly backup" {
		t.Fatalf("plan = %q, %v", plan, ok)
	}
	if task, ok := TaskFromContext(ctx); !ok || task != "sync photos" {
		t.Fatalf("task = %q, %v", task, ok)
	}

	// Blank values leave the context untouched.
	if got := WithRunID(context.Background(), "  "); got != context.Background() {
		t.Fatal("blank run id should not derive a new context")
	}
}
