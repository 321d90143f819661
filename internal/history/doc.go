// Package history persists run records and their stage transitions in
// SQLite.
//
// Each run gets a row keyed by its uuid, and every stage transition
// observed during execution is appended to run_events. The store backs
// the `treerun history` command and is pruned to the configured
// retention after each run.
package history
