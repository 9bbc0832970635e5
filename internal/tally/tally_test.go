package tally

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dvote/voting/internal/crypto/keys"
	"github.com/dvote/voting/internal/crypto/paillier"
	"github.com/dvote/voting/internal/ledger/app"
	"github.com/dvote/voting/internal/rpc"
)

// fakeEngine wraps a real Application behind an httptest.Server so tally
// tests exercise the actual RPC wire shapes without a live consensus
// engine.
func fakeEngine(t *testing.T, a *app.Application) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/abci_query", func(w http.ResponseWriter, r *http.Request) {
		resp := a.Query("/state")
		fmt.Fprintf(w, `{"result":{"response":{"code":%d,"value":%q}}}`,
			resp.Code, base64.StdEncoding.EncodeToString(resp.Value))
	})
	mux.HandleFunc("/broadcast_tx_commit", func(w http.ResponseWriter, r *http.Request) {
		txParam := r.URL.Query().Get("tx")
		raw, err := base64.StdEncoding.DecodeString(txParam)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := a.DeliverTx(context.Background(), raw)
		a.Commit()
		fmt.Fprintf(w, `{"result":{"check_tx":{"code":0,"log":"ok"},"deliver_tx":{"code":%d,"log":%q}}}`,
			resp.Code, resp.Log)
	})
	return httptest.NewServer(mux)
}

func setupClosedVote(t *testing.T, pub *paillier.PublicKey, endHeight int64) *app.Application {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app_state.json")
	a, err := app.New(pub, path, nil)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	genesis, _ := json.Marshal(struct {
		VotingEndHeight int64 `json:"voting_end_height"`
	}{endHeight})
	if err := a.InitChain(app.RequestInitChain{AppStateBytes: genesis}); err != nil {
		t.Fatalf("InitChain: %v", err)
	}

	for _, uid := range []string{"alice", "bob", "carol"} {
		enc, err := pub.Encrypt(big.NewInt(1))
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		a.DeliverTx(context.Background(), []byte("vote:"+uid+":"+enc.String()))
		a.Commit()
	}
	for a.State().CurrentHeight() <= endHeight {
		a.Commit()
	}
	return a
}

func TestTallyEndToEnd(t *testing.T) {
	pub, priv, err := paillier.GenerateKeyPair(256)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	shares, err := keys.Split(priv, 5, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	a := setupClosedVote(t, pub, 2)
	srv := fakeEngine(t, a)
	defer srv.Close()

	client := rpc.New(srv.URL)
	result, err := Tally(context.Background(), client, pub, shares[:3], 3)
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if result.TotalVotes != 3 {
		t.Errorf("TotalVotes = %d, want 3", result.TotalVotes)
	}
	if result.Sum.Int64() != 3 {
		t.Errorf("Sum = %v, want 3", result.Sum)
	}
	if a.State().FinalResult() == nil {
		t.Error("final_result was not published")
	}
}

func TestTallyAnyThresholdSubsetOfShares(t *testing.T) {
	pub, priv, err := paillier.GenerateKeyPair(256)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	shares, err := keys.Split(priv, 5, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	a := setupClosedVote(t, pub, 2)
	srv := fakeEngine(t, a)
	defer srv.Close()

	client := rpc.New(srv.URL)
	subset := []keys.Share{shares[1], shares[3], shares[4]}
	result, err := Tally(context.Background(), client, pub, subset, 3)
	if err != nil {
		t.Fatalf("Tally with non-first subset: %v", err)
	}
	if result.TotalVotes != 3 {
		t.Errorf("TotalVotes = %d, want 3", result.TotalVotes)
	}
}

func TestTallyRejectsBelowThresholdShares(t *testing.T) {
	pub, priv, err := paillier.GenerateKeyPair(256)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	shares, err := keys.Split(priv, 5, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	a := setupClosedVote(t, pub, 2)
	srv := fakeEngine(t, a)
	defer srv.Close()

	client := rpc.New(srv.URL)
	_, err = Tally(context.Background(), client, pub, shares[:2], 3)
	if err == nil {
		t.Fatal("expected an error with fewer shares than threshold")
	}
}

func TestTallyRejectsWhileVotingOpen(t *testing.T) {
	pub, priv, err := paillier.GenerateKeyPair(256)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	shares, err := keys.Split(priv, 5, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	path := filepath.Join(t.TempDir(), "app_state.json")
	a, err := app.New(pub, path, nil)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	genesis, _ := json.Marshal(struct {
		VotingEndHeight int64 `json:"voting_end_height"`
	}{100})
	if err := a.InitChain(app.RequestInitChain{AppStateBytes: genesis}); err != nil {
		t.Fatalf("InitChain: %v", err)
	}
	srv := fakeEngine(t, a)
	defer srv.Close()

	client := rpc.New(srv.URL)
	_, err = Tally(context.Background(), client, pub, shares[:3], 3)
	if err != ErrVotingNotClosed {
		t.Errorf("err = %v, want ErrVotingNotClosed", err)
	}
}

func TestTallyRejectsAlreadyPublished(t *testing.T) {
	pub, priv, err := paillier.GenerateKeyPair(256)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	shares, err := keys.Split(priv, 5, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	a := setupClosedVote(t, pub, 1)
	srv := fakeEngine(t, a)
	defer srv.Close()
	client := rpc.New(srv.URL)

	if _, err := Tally(context.Background(), client, pub, shares[:3], 3); err != nil {
		t.Fatalf("first Tally: %v", err)
	}
	_, err = Tally(context.Background(), client, pub, shares[:3], 3)
	if err != ErrResultAlreadyPublished {
		t.Errorf("err = %v, want ErrResultAlreadyPublished", err)
	}
}

func TestGenerateKeysProducesUsableShares(t *testing.T) {
	gk, err := GenerateKeys(5, 3, 256)
	if err != nil {
		t.Fatalf("GenerateKeys: %v", err)
	}
	if len(gk.Shares) != 5 {
		t.Fatalf("len(Shares) = %d, want 5", len(gk.Shares))
	}
	priv, err := keys.Recover(gk.Shares[:3], gk.PublicKey)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	enc, err := gk.PublicKey.Encrypt(big.NewInt(7))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	m, err := priv.Decrypt(enc)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if m.Int64() != 7 {
		t.Errorf("Decrypt = %v, want 7", m)
	}
}

func TestSetupGenesisFragment(t *testing.T) {
	data, err := SetupGenesis(42)
	if err != nil {
		t.Fatalf("SetupGenesis: %v", err)
	}
	var got struct {
		VotingEndHeight int64 `json:"voting_end_height"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.VotingEndHeight != 42 {
		t.Errorf("VotingEndHeight = %d, want 42", got.VotingEndHeight)
	}
}
