// Package runner executes plan files end to end.
//
// It loads and lowers a plan, serializes runs with a lock file so two
// invocations cannot interleave, records every stage transition in the
// history store, and hands the tree to the tasktree engine. The
// returned Result carries the final tree snapshot so callers can
// render progress even for failed runs.
package runner
