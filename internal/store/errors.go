// Package store provides atomic on-disk persistence for the ledger's
// canonical state file: single-writer, crash-safe writes via a temp file
// plus rename.
package store

import "errors"

// ErrPersistence wraps any failure writing or reading the canonical state
// file. A persistence failure during commit is fatal: the node must not
// report the transaction as committed if the durable write did not
// succeed.
var ErrPersistence = errors.New("store: persistence failure")
