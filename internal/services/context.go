package services

import (
	"context"
	"strings"
)

type contextKey int

const (
	runIDKey contextKey = iota
	planKey
	taskKey
)

// WithRunID attaches a run identifier to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the run identifier, if any.
func RunIDFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, runIDKey)
}

// WithPlan attaches the plan title to the context.
func WithPlan(ctx context.Context, title string) context.Context {
	title = strings.TrimSpace(title)
	if title == "" {
		return ctx
	}
	return context.WithValue(ctx, planKey, title)
}

// PlanFromContext extracts the plan title, if any.
func PlanFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, planKey)
}

// WithTask attaches the current task title to the context.
func WithTask(ctx context.Context, title string) context.Context {
	title = strings.TrimSpace(title)
	if title == "" {
		return ctx
	}
	return context.WithValue(ctx, taskKey, title)
}

// TaskFromContext extracts the current task title, if any.
func TaskFromContext(ctx context.Context) (string, bool) {
	return stringFromContext(ctx, taskKey)
}

func stringFromContext(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, ok := ctx.Value(key).(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
