package app

import "strings"

// TxKind classifies a parsed transaction.
type TxKind string

const (
	TxVote    TxKind = "vote"
	TxResult  TxKind = "result"
	TxUnknown TxKind = "unknown"
)

// Tx is a parsed transaction. For TxUnknown, Raw holds the original bytes
// and the other fields are empty.
type Tx struct {
	Kind       TxKind
	UID        string
	Ciphertext string
	Payload    string
	Raw        string
}

// ParseTx applies the transaction grammar:
//
//	vote:<uid>:<ciphertext-decimal>
//	result:<payload>
//
// Anything else is TxUnknown. A malformed vote: transaction (missing the
// second colon, or an empty uid) still parses as TxVote, with UID and/or
// Ciphertext left empty, rather than falling back to TxUnknown here —
// check_tx/deliver_tx reject it explicitly so the rejection log is
// specific ("malformed vote transaction") rather than silently folding
// into the unknown-prefix no-op path.
func ParseTx(raw string) Tx {
	switch {
	case strings.HasPrefix(raw, "vote:"):
		rest := strings.TrimPrefix(raw, "vote:")
		idx := strings.Index(rest, ":")
		if idx < 0 {
			return Tx{Kind: TxVote, Raw: raw}
		}
		uid := rest[:idx]
		ciphertext := rest[idx+1:]
		return Tx{Kind: TxVote, UID: uid, Ciphertext: ciphertext, Raw: raw}
	case strings.HasPrefix(raw, "result:"):
		payload := strings.TrimPrefix(raw, "result:")
		return Tx{Kind: TxResult, Payload: payload, Raw: raw}
	default:
		return Tx{Kind: TxUnknown, Raw: raw}
	}
}
