package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dvote/voting/internal/log"
	"github.com/dvote/voting/pkg/retry"
)

// Client talks to a Tendermint-compatible consensus engine's RPC: the
// broadcast_tx_commit endpoint to submit a transaction, and abci_query to
// read back application state. Both are plain GET endpoints taking their
// arguments as query parameters, per the engine's JSON-RPC-over-HTTP
// convention.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retrier    *retry.ExponentialRetrier
}

// New constructs a Client against baseURL (e.g. "http://127.0.0.1:26657").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retrier: retry.NewExponentialRetrier(
			retry.WithNotify(func(err error, _, total time.Duration) {
				log.Log().Warn("rpc retry", "err", err.Error(), "elapsed", total.String())
			}),
		),
	}
}

// envelope is the common JSON-RPC reply shape: an error field when the
// engine itself rejects the request, and a raw result payload otherwise.
type envelope struct {
	Error  *rpcError       `json:"error"`
	Result json.RawMessage `json:"result"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, e.Data)
}

// get issues a GET request to path with the given query parameters and
// decodes the JSON-RPC envelope, retrying transport-level failures only.
func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	full := c.baseURL + path
	if len(query) > 0 {
		full += "?" + query.Encode()
	}

	var result json.RawMessage
	err := c.retrier.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
		if err != nil {
			return fmt.Errorf("%w: building request: %v", ErrTransport, err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransport, err)
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: reading response body: %v", ErrTransport, err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: status %d: %s", ErrTransport, resp.StatusCode, string(body))
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return fmt.Errorf("%w: decoding JSON-RPC envelope: %v", ErrTransport, err)
		}
		if env.Error != nil {
			return fmt.Errorf("%w: %v", ErrTransport, env.Error)
		}
		result = env.Result
		return nil
	})
	return result, err
}

// BroadcastResult is the subset of broadcast_tx_commit's reply the Tally
// Controller and Voter CLI act on.
type BroadcastResult struct {
	CheckTxCode   uint32
	CheckTxLog    string
	DeliverTxCode uint32
	DeliverTxLog  string
}

// Accepted reports whether both stages of the transaction returned code 0.
func (r BroadcastResult) Accepted() bool {
	return r.CheckTxCode == 0 && r.DeliverTxCode == 0
}

type broadcastTxCommitResult struct {
	CheckTx struct {
		Code uint32 `json:"code"`
		Log  string `json:"log"`
	} `json:"check_tx"`
	DeliverTx struct {
		Code uint32 `json:"code"`
		Log  string `json:"log"`
	} `json:"deliver_tx"`
}

// BroadcastTxCommit submits tx and blocks until both check_tx and
// deliver_tx have run.
func (c *Client) BroadcastTxCommit(ctx context.Context, tx []byte) (*BroadcastResult, error) {
	query := url.Values{}
	query.Set("tx", base64.StdEncoding.EncodeToString(tx))

	raw, err := c.get(ctx, "/broadcast_tx_commit", query)
	if err != nil {
		return nil, err
	}

	var res broadcastTxCommitResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: decoding broadcast_tx_commit result: %v", ErrTransport, err)
	}

	return &BroadcastResult{
		CheckTxCode:   res.CheckTx.Code,
		CheckTxLog:    res.CheckTx.Log,
		DeliverTxCode: res.DeliverTx.Code,
		DeliverTxLog:  res.DeliverTx.Log,
	}, nil
}

// QueryResult is the subset of abci_query's reply the Tally Controller
// acts on.
type QueryResult struct {
	Code  uint32
	Value []byte
}

type abciQueryResult struct {
	Response struct {
		Code  uint32 `json:"code"`
		Value string `json:"value"`
	} `json:"response"`
}

// ABCIQuery queries path against the engine's current application state.
func (c *Client) ABCIQuery(ctx context.Context, path string) (*QueryResult, error) {
	query := url.Values{}
	query.Set("path", fmt.Sprintf("%q", path))

	raw, err := c.get(ctx, "/abci_query", query)
	if err != nil {
		return nil, err
	}

	var res abciQueryResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: decoding abci_query result: %v", ErrTransport, err)
	}

	value, err := base64.StdEncoding.DecodeString(res.Response.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding abci_query value: %v", ErrTransport, err)
	}

	return &QueryResult{Code: res.Response.Code, Value: value}, nil
}
