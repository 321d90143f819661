// Package tasktree models a tree of named, optionally-executable tasks
// and runs them synchronously in declaration order.
//
// A tree is built from Task values: grouping tasks organize related
// work, executable tasks carry an ExecFunc. Run walks the tree in
// depth-first pre-order, threads a single result value from each
// executed task into the next, and reports every lifecycle transition
// to an optional observer. Stage transitions for a task are also
// surfaced, message-stripped, to each of its ancestors so a UI can
// keep a rolled-up status per tree level without re-deriving it.
//
// Execution is single-threaded and blocking. The first failing task
// aborts the remaining walk; the root always receives a terminal
// completion stage exactly once, whether the run succeeded or not.
package tasktree
