// Package services carries the cross-cutting error taxonomy and
// context plumbing shared by the runner, the history store, and the
// CLI.
//
// Errors produced inside treerun are tagged with one of the exported
// sentinel markers via Wrap so callers can classify failures with
// errors.Is without parsing messages. The context helpers attach run
// and task identifiers that the logging package lifts into structured
// fields.
package services
