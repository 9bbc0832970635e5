package log

// Outcome classifies how a ledger callback resolved, for the structured
// log line written on every invocation. This is the logging-layer
// counterpart to the persisted AuditRecord in internal/audit: this
// package only ever writes to stdout and never blocks consensus.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeNoop     Outcome = "noop"
	OutcomeError    Outcome = "error"
)

// Callback logs one structured line for a single ABCI-style callback
// invocation: which callback ran, what kind of transaction (if any) it
// carried, and how it resolved.
func Callback(callback, txKind string, outcome Outcome, detail string) {
	Log().Info("callback",
		"callback", callback,
		"tx_kind", txKind,
		"outcome", string(outcome),
		"detail", detail,
	)
}
