package tally

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/dvote/voting/internal/crypto/keys"
	"github.com/dvote/voting/internal/crypto/paillier"
	"github.com/dvote/voting/internal/log"
	"github.com/dvote/voting/internal/rpc"
)

// stateView is the subset of the canonical app_state.json document tally
// needs to read back via abci_query.
type stateView struct {
	CurrentHeight   int64   `json:"current_height"`
	EncryptedSum    string  `json:"encrypted_sum"`
	FinalResult     *string `json:"final_result"`
	TotalVotes      int64   `json:"total_votes"`
	VotingEndHeight int64   `json:"voting_end_height"`
}

// GeneratedKeys holds the output of GenerateKeys, ready for the caller to
// persist via paillier.MarshalPublicKey and keys.MarshalShares.
type GeneratedKeys struct {
	PublicKey *paillier.PublicKey
	Shares    []keys.Share
	Threshold int
}

// GenerateKeys runs the Crypto Core to produce a fresh Paillier key pair
// of approximately bits bits, then splits the private key into nShares
// Shamir shares with the given reconstruction threshold. The private key
// itself is zeroized before returning; only the public key and the
// shares survive.
func GenerateKeys(nShares, threshold, bits int) (*GeneratedKeys, error) {
	log.Log().Info("generate_keys", "n_shares", nShares, "threshold", threshold, "bits", bits)

	pub, priv, err := paillier.GenerateKeyPair(bits)
	if err != nil {
		return nil, fmt.Errorf("tally: generating key pair: %w", err)
	}
	defer priv.Zeroize()

	shares, err := keys.Split(priv, nShares, threshold)
	if err != nil {
		return nil, fmt.Errorf("tally: splitting private key: %w", err)
	}

	log.Log().Info("generate_keys complete", "n_shares", len(shares))
	return &GeneratedKeys{PublicKey: pub, Shares: shares, Threshold: threshold}, nil
}

// genesisAppState mirrors the {"voting_end_height": <int>} fragment the
// Ledger Application's InitChain expects.
type genesisAppState struct {
	VotingEndHeight int64 `json:"voting_end_height"`
}

// SetupGenesis emits the app_state genesis fragment for endHeight.
func SetupGenesis(endHeight int64) ([]byte, error) {
	data, err := json.Marshal(genesisAppState{VotingEndHeight: endHeight})
	if err != nil {
		return nil, fmt.Errorf("tally: marshaling genesis fragment: %w", err)
	}
	return data, nil
}

// Result is the outcome of a successful Tally.
type Result struct {
	TotalVotes int64
	Sum        *big.Int
	Payload    string
}

// Tally queries the current application state through client, verifies
// every precondition, reconstructs the private key from shares, decrypts
// the running total, and broadcasts the result transaction. No state
// mutation is attempted if any precondition fails.
func Tally(ctx context.Context, client *rpc.Client, pub *paillier.PublicKey, shares []keys.Share, threshold int) (*Result, error) {
	st, err := queryState(ctx, client)
	if err != nil {
		return nil, err
	}

	if st.VotingEndHeight <= 0 || st.CurrentHeight <= st.VotingEndHeight {
		return nil, ErrVotingNotClosed
	}
	if st.FinalResult != nil {
		return nil, ErrResultAlreadyPublished
	}
	if len(shares) < threshold {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientShares, len(shares), threshold)
	}

	sum, err := paillier.ParseEncryptedNumber(pub, st.EncryptedSum)
	if err != nil {
		return nil, fmt.Errorf("tally: malformed encrypted_sum: %w", err)
	}

	priv, err := keys.Recover(shares, pub)
	if err != nil {
		return nil, fmt.Errorf("tally: reconstructing private key: %w", err)
	}
	defer priv.Zeroize()

	total, err := priv.Decrypt(sum)
	if err != nil {
		return nil, fmt.Errorf("tally: decrypting encrypted_sum: %w", err)
	}

	payload := fmt.Sprintf("Total Votes: %d, Sum: %d", st.TotalVotes, total)
	log.Log().Info("tally", "total_votes", st.TotalVotes, "sum", total.String())

	broadcast, err := client.BroadcastTxCommit(ctx, []byte("result:"+payload))
	if err != nil {
		return nil, fmt.Errorf("tally: broadcasting result: %w", err)
	}
	if !broadcast.Accepted() || broadcast.DeliverTxLog != "ok" {
		return nil, fmt.Errorf("%w: check_tx=%q deliver_tx=%q", ErrBroadcastRejected, broadcast.CheckTxLog, broadcast.DeliverTxLog)
	}

	log.Log().Info("tally complete", "payload", payload)
	return &Result{TotalVotes: st.TotalVotes, Sum: total, Payload: payload}, nil
}

func queryState(ctx context.Context, client *rpc.Client) (*stateView, error) {
	q, err := client.ABCIQuery(ctx, "/state")
	if err != nil {
		return nil, fmt.Errorf("tally: querying state: %w", err)
	}

	var st stateView
	if err := json.Unmarshal(q.Value, &st); err != nil {
		return nil, fmt.Errorf("tally: decoding queried state: %w", err)
	}
	return &st, nil
}
