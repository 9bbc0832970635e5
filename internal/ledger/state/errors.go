// Package state implements the voting ledger's in-memory state, its
// canonical serialization, app-hash computation, and atomic persistence.
package state

import "errors"

// ErrDuplicateVote is returned by AddVote when the uid has already voted.
var ErrDuplicateVote = errors.New("state: uid has already voted")
