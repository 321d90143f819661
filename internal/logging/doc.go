// Package logging configures structured logging for treerun.
//
// It builds log/slog loggers with either a human-oriented console
// handler or plain JSON output, writing to stdout/stderr and optional
// log files. Attribute helpers and standardized field-name constants
// keep event logs uniform across packages, and the context helpers
// lift run/plan/task identifiers attached by internal/services into
// structured fields.
package logging
