// Package app implements the Ledger Application: the six ABCI-style
// callbacks that drive the voting state machine.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dvote/voting/internal/audit"
	"github.com/dvote/voting/internal/crypto/paillier"
	"github.com/dvote/voting/internal/ledger/state"
	"github.com/dvote/voting/internal/log"
)

// Application owns the voting ledger's single mutable state and the
// on-disk path it is persisted to. Every method here is invoked from one
// state-owning goroutine; Application performs no internal locking.
type Application struct {
	pub       *paillier.PublicKey
	statePath string
	state     *state.VotingState
	audit     *audit.Store // optional; nil disables the audit trail
}

// New constructs an Application, loading statePath if it exists or
// starting from an empty VotingState otherwise.
func New(pub *paillier.PublicKey, statePath string, auditStore *audit.Store) (*Application, error) {
	st, err := state.Load(statePath, pub)
	if err != nil {
		return nil, fmt.Errorf("app: loading state: %w", err)
	}
	return &Application{pub: pub, statePath: statePath, state: st, audit: auditStore}, nil
}

// Info implements the info callback.
func (a *Application) Info() ResponseInfo {
	hash := a.state.AppHash()
	log.Callback("info", "", log.OutcomeAccepted, "")
	return ResponseInfo{
		LastBlockHeight:  a.state.CurrentHeight(),
		LastBlockAppHash: hash[:],
	}
}

// genesisAppState mirrors the {"voting_end_height": <int>} genesis
// fragment.
type genesisAppState struct {
	VotingEndHeight int64 `json:"voting_end_height"`
}

// InitChain implements the init_chain callback: it is invoked exactly
// once on a fresh chain.
func (a *Application) InitChain(req RequestInitChain) error {
	if len(req.AppStateBytes) > 0 {
		var g genesisAppState
		if err := json.Unmarshal(req.AppStateBytes, &g); err != nil {
			log.Callback("init_chain", "", log.OutcomeError, err.Error())
			return fmt.Errorf("app: malformed genesis app_state: %w", err)
		}
		a.state.SetVotingEndHeight(g.VotingEndHeight)
	}

	if err := a.state.Save(a.state.CurrentHeight(), a.statePath); err != nil {
		log.Fatal("init_chain persistence failed", "err", err.Error())
	}
	log.Callback("init_chain", "", log.OutcomeAccepted, "")
	return nil
}

// CheckTx implements the check_tx callback: stateless grammar validation
// only. Always reports OkCode; see OkCode's doc comment for why.
func (a *Application) CheckTx(txBytes []byte) ResponseCheckTx {
	tx := ParseTx(string(txBytes))

	switch tx.Kind {
	case TxVote:
		if tx.UID == "" || tx.Ciphertext == "" {
			log.Callback("check_tx", string(tx.Kind), log.OutcomeRejected, "malformed vote transaction")
			return ResponseCheckTx{Code: OkCode, Log: "malformed vote transaction"}
		}
		log.Callback("check_tx", string(tx.Kind), log.OutcomeAccepted, "")
		return ResponseCheckTx{Code: OkCode, Log: "ok"}
	case TxResult:
		log.Callback("check_tx", string(tx.Kind), log.OutcomeAccepted, "")
		return ResponseCheckTx{Code: OkCode, Log: "ok"}
	default:
		log.Callback("check_tx", string(TxUnknown), log.OutcomeNoop, "unknown transaction prefix")
		return ResponseCheckTx{Code: OkCode, Log: "unknown transaction accepted as no-op"}
	}
}

// DeliverTx implements the deliver_tx callback, the single point of
// state mutation.
func (a *Application) DeliverTx(ctx context.Context, txBytes []byte) ResponseDeliverTx {
	tx := ParseTx(string(txBytes))
	height := a.state.CurrentHeight()

	resp := a.deliver(tx, height)
	a.recordAudit(ctx, tx, resp, height)
	return resp
}

func (a *Application) deliver(tx Tx, height int64) ResponseDeliverTx {
	votingEnded := a.state.IsVotingEnded(height)

	if votingEnded && tx.Kind != TxResult {
		return ResponseDeliverTx{Code: OkCode, Log: "voting closed"}
	}

	switch tx.Kind {
	case TxVote:
		if tx.UID == "" || tx.Ciphertext == "" {
			return ResponseDeliverTx{Code: OkCode, Log: "malformed vote transaction"}
		}
		if a.state.HasVoted(tx.UID) {
			return ResponseDeliverTx{Code: OkCode, Log: "already voted"}
		}
		enc, err := paillier.ParseEncryptedNumber(a.pub, tx.Ciphertext)
		if err != nil {
			return ResponseDeliverTx{Code: OkCode, Log: "unparsable ciphertext"}
		}
		if err := a.state.AddVote(tx.UID, enc); err != nil {
			return ResponseDeliverTx{Code: OkCode, Log: err.Error()}
		}
		return ResponseDeliverTx{Code: OkCode, Log: "ok"}

	case TxResult:
		if a.state.FinalResult() != nil {
			return ResponseDeliverTx{Code: OkCode, Log: "already published"}
		}
		if !votingEnded {
			return ResponseDeliverTx{Code: OkCode, Log: "too early"}
		}
		a.state.SetFinalResult(tx.Payload)
		return ResponseDeliverTx{Code: OkCode, Log: "ok"}

	default:
		return ResponseDeliverTx{Code: OkCode, Log: "unknown transaction accepted as no-op"}
	}
}

func (a *Application) recordAudit(ctx context.Context, tx Tx, resp ResponseDeliverTx, height int64) {
	outcome := log.OutcomeAccepted
	if resp.Log != "ok" {
		if tx.Kind == TxUnknown {
			outcome = log.OutcomeNoop
		} else {
			outcome = log.OutcomeRejected
		}
	}
	log.Callback("deliver_tx", string(tx.Kind), outcome, resp.Log)

	if a.audit == nil {
		return
	}
	record := audit.Record{
		TrailID:   uuid.NewString(),
		Timestamp: time.Now(),
		TxKind:    string(tx.Kind),
		UID:       tx.UID,
		Accepted:  resp.Log == "ok",
		Log:       resp.Log,
		Height:    height,
	}
	if err := a.audit.Append(ctx, record); err != nil {
		// Best-effort: an audit write failure is logged but never
		// affects consensus.
		log.Log().Warn("audit append failed", "err", err.Error())
	}
}

// Query implements the query callback: only "/state" is recognized.
func (a *Application) Query(path string) ResponseQuery {
	if path != "/state" {
		log.Callback("query", "", log.OutcomeNoop, "unrecognized query path")
		return ResponseQuery{Code: OkCode, Log: "unrecognized path", Height: a.state.CurrentHeight()}
	}
	log.Callback("query", "", log.OutcomeAccepted, "")
	return ResponseQuery{
		Code:   OkCode,
		Value:  a.state.ToCanonicalBytes(),
		Height: a.state.CurrentHeight(),
	}
}

// Commit implements the commit callback: advances the height, persists
// state atomically, and returns the new app-hash. A persistence failure
// is fatal — the process aborts rather than risk diverging from
// replicas that did persist successfully.
func (a *Application) Commit() ResponseCommit {
	nextHeight := a.state.CurrentHeight() + 1
	if err := a.state.Save(nextHeight, a.statePath); err != nil {
		log.Fatal("commit persistence failed", "err", err.Error(), "height", nextHeight)
	}
	hash := a.state.AppHash()
	log.Callback("commit", "", log.OutcomeAccepted, fmt.Sprintf("height=%d", nextHeight))
	return ResponseCommit{Data: hash[:]}
}

// State exposes the underlying VotingState for read-only inspection
// (e.g. by the RPC query path when the node also embeds an RPC server).
func (a *Application) State() *state.VotingState {
	return a.state
}
