// Package log provides the process-wide structured JSON logger used by
// the node, admin, and voter binaries, plus the callback-level audit
// helper that feeds log lines (as distinct from the persisted audit
// trail in internal/audit) into that logger.
package log
