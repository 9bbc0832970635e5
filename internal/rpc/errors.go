// Package rpc implements the HTTP client side of the RPC surface a
// Tendermint-compatible consensus engine exposes: broadcast_tx_commit to
// submit a transaction, and abci_query to read back application state.
package rpc

import "errors"

// ErrTransport wraps a connection-level failure: the engine was
// unreachable, the request timed out, or the response could not be
// decoded. It is distinct from a transaction being rejected by the
// application, which is reported as a normal (non-error) result carrying
// the reply code and log and is never retried. The voting ledger rejects
// with code 0 and a log other than "ok".
var ErrTransport = errors.New("rpc: transport failure")
