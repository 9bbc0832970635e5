// Package transport implements a minimal ABCI-style socket protocol:
// newline-delimited JSON requests and replies over a single TCP
// connection. A real consensus engine's wire protocol is out of scope;
// this exists only so the Ledger Application's six callbacks are
// reachable over a socket the way an external driver expects.
package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/cenkalti/backoff/v4"

	"github.com/dvote/voting/internal/ledger/app"
	"github.com/dvote/voting/internal/log"
	"github.com/dvote/voting/pkg/retry"
)

// Callback names, matching the six Ledger Application callbacks.
const (
	CallbackInfo      = "info"
	CallbackInitChain = "init_chain"
	CallbackCheckTx   = "check_tx"
	CallbackDeliverTx = "deliver_tx"
	CallbackCommit    = "commit"
	CallbackQuery     = "query"
)

// Request is one line of the socket protocol: a callback name plus
// whichever of the optional fields that callback needs.
type Request struct {
	Callback      string `json:"callback"`
	Tx            string `json:"tx,omitempty"`             // base64, check_tx/deliver_tx
	AppStateBytes string `json:"app_state_bytes,omitempty"` // base64, init_chain
	Path          string `json:"path,omitempty"`            // query
}

// Response is one line of the reply stream.
type Response struct {
	Code    uint32 `json:"code,omitempty"`
	Log     string `json:"log,omitempty"`
	Value   string `json:"value,omitempty"` // base64, query
	Height  int64  `json:"height,omitempty"`
	AppHash string `json:"app_hash,omitempty"` // hex, info/commit
	Error   string `json:"error,omitempty"`
}

// Serve accepts connections on ln and processes each serially against
// application until ctx is cancelled or ln is closed. Callbacks from all
// connections are serialized through one mutex, since application does no
// locking of its own. A transient Accept error is retried with backoff; a
// permanent one (listener closed) returns.
func Serve(ctx context.Context, ln net.Listener, application *app.Application) error {
	retrier := retry.NewExponentialRetrier()
	var mu sync.Mutex

	for {
		var conn net.Conn
		err := retrier.RetryWithBackoff(ctx, func() error {
			var acceptErr error
			conn, acceptErr = ln.Accept()
			if acceptErr != nil {
				if ne, ok := acceptErr.(net.Error); ok && ne.Temporary() {
					return acceptErr
				}
				return backoff.Permanent(acceptErr)
			}
			return nil
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("transport: accept: %w", err)
		}

		go handleConn(ctx, conn, application, &mu)
	}
}

func handleConn(ctx context.Context, conn net.Conn, application *app.Application, mu *sync.Mutex) {
	defer func() { _ = conn.Close() }()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(conn)

	for scanner.Scan() {
		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			_ = enc.Encode(Response{Error: "malformed request: " + err.Error()})
			continue
		}

		mu.Lock()
		resp, err := dispatch(ctx, application, req)
		mu.Unlock()
		if err != nil {
			_ = enc.Encode(Response{Error: err.Error()})
			continue
		}
		if err := enc.Encode(resp); err != nil {
			log.Log().Warn("transport: writing response failed", "err", err.Error())
			return
		}
	}
}
