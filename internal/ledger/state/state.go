package state

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/dvote/voting/internal/crypto/paillier"
	"github.com/dvote/voting/internal/store"
)

// VotingState is the voting ledger's persisted entity. It is mutated only
// from deliver_tx/commit and is the sole input to the app-hash
// computation that binds the ledger's state to consensus.
type VotingState struct {
	pub *paillier.PublicKey

	votedUIDs       map[string]struct{}
	encryptedSum    *paillier.EncryptedNumber
	totalVotes      int64
	votingEndHeight int64
	currentHeight   int64
	finalResult     *string
}

// canonicalState is the on-the-wire shape of VotingState. Its fields are
// declared in lexicographic order by JSON tag so that encoding/json, which
// emits struct fields in declaration order, produces a deterministic,
// sorted-key document without needing a custom encoder.
type canonicalState struct {
	CurrentHeight   int64    `json:"current_height"`
	EncryptedSum    string   `json:"encrypted_sum"`
	FinalResult     *string  `json:"final_result"`
	TotalVotes      int64    `json:"total_votes"`
	VotedUIDs       []string `json:"voted_uids"`
	VotingEndHeight int64    `json:"voting_end_height"`
}

// New constructs an empty VotingState with encrypted_sum initialized to
// the fixed EncodedZero convention.
func New(pub *paillier.PublicKey) *VotingState {
	return &VotingState{
		pub:          pub,
		votedUIDs:    make(map[string]struct{}),
		encryptedSum: paillier.EncodedZero(pub.N),
	}
}

// Load restores a VotingState from path, or returns a fresh empty state if
// the file does not exist. Any other read failure (permission denied,
// corrupt filesystem) is returned rather than silently treated as a fresh
// chain.
func Load(path string, pub *paillier.PublicKey) (*VotingState, error) {
	data, err := store.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(pub), nil
		}
		return nil, fmt.Errorf("state: reading app_state.json: %w", err)
	}
	return fromCanonicalBytes(data, pub)
}

func fromCanonicalBytes(data []byte, pub *paillier.PublicKey) (*VotingState, error) {
	var c canonicalState
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("state: malformed app_state.json: %w", err)
	}

	sum, err := paillier.ParseEncryptedNumber(pub, c.EncryptedSum)
	if err != nil {
		return nil, fmt.Errorf("state: malformed encrypted_sum: %w", err)
	}

	s := &VotingState{
		pub:             pub,
		votedUIDs:       make(map[string]struct{}, len(c.VotedUIDs)),
		encryptedSum:    sum,
		totalVotes:      c.TotalVotes,
		votingEndHeight: c.VotingEndHeight,
		currentHeight:   c.CurrentHeight,
		finalResult:     c.FinalResult,
	}
	for _, uid := range c.VotedUIDs {
		s.votedUIDs[uid] = struct{}{}
	}
	return s, nil
}

// ToCanonicalBytes serializes the state with sorted keys and a
// lexicographically sorted voted_uids list, so that two replicas holding
// the same logical state always produce byte-identical output.
func (s *VotingState) ToCanonicalBytes() []byte {
	uids := make([]string, 0, len(s.votedUIDs))
	for uid := range s.votedUIDs {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	c := canonicalState{
		CurrentHeight:   s.currentHeight,
		EncryptedSum:    s.encryptedSum.String(),
		FinalResult:     s.finalResult,
		TotalVotes:      s.totalVotes,
		VotedUIDs:       uids,
		VotingEndHeight: s.votingEndHeight,
	}

	// canonicalState's fields are already declared in sorted-key order,
	// and encoding/json never reorders struct fields, so this Marshal
	// output is the canonical document.
	data, err := json.Marshal(c)
	if err != nil {
		// canonicalState contains only strings, ints, and a slice of
		// strings: marshaling cannot fail.
		panic(fmt.Sprintf("state: canonical marshal failed: %v", err))
	}
	return data
}

// AppHash returns the SHA-256 digest of the canonical serialization.
func (s *VotingState) AppHash() [32]byte {
	return sha256.Sum256(s.ToCanonicalBytes())
}

// Save persists the state atomically to path after setting current_height.
func (s *VotingState) Save(height int64, path string) error {
	s.currentHeight = height
	return store.AtomicWriteFile(path, s.ToCanonicalBytes(), 0600)
}

// IsVotingEnded reports whether h has passed voting_end_height.
// voting_end_height=0 means unset/open indefinitely.
func (s *VotingState) IsVotingEnded(h int64) bool {
	return s.votingEndHeight > 0 && h > s.votingEndHeight
}

// AddVote records uid as having voted and folds enc into encrypted_sum. It
// returns ErrDuplicateVote if uid has already voted and leaves the state
// unchanged in that case.
func (s *VotingState) AddVote(uid string, enc *paillier.EncryptedNumber) error {
	if _, voted := s.votedUIDs[uid]; voted {
		return ErrDuplicateVote
	}
	sum, err := paillier.Add(s.encryptedSum, enc)
	if err != nil {
		return err
	}
	s.votedUIDs[uid] = struct{}{}
	s.encryptedSum = sum
	s.totalVotes++
	return nil
}

// HasVoted reports whether uid is already recorded in voted_uids.
func (s *VotingState) HasVoted(uid string) bool {
	_, voted := s.votedUIDs[uid]
	return voted
}

// SetVotingEndHeight sets voting_end_height, called from init_chain.
func (s *VotingState) SetVotingEndHeight(h int64) {
	s.votingEndHeight = h
}

// VotingEndHeight returns the configured end-of-voting height.
func (s *VotingState) VotingEndHeight() int64 {
	return s.votingEndHeight
}

// CurrentHeight returns the height of the most recently committed block.
func (s *VotingState) CurrentHeight() int64 {
	return s.currentHeight
}

// TotalVotes returns the count of accepted ballots.
func (s *VotingState) TotalVotes() int64 {
	return s.totalVotes
}

// EncryptedSum returns the homomorphic running total.
func (s *VotingState) EncryptedSum() *paillier.EncryptedNumber {
	return s.encryptedSum
}

// FinalResult returns the published result payload, or nil if unset.
func (s *VotingState) FinalResult() *string {
	return s.finalResult
}

// SetFinalResult publishes payload as the final_result, write-once: the
// caller (deliver_tx) is responsible for rejecting a second publication
// before calling this.
func (s *VotingState) SetFinalResult(payload string) {
	s.finalResult = &payload
}

// VotedUIDs returns the lexicographically sorted list of UIDs that have
// voted, matching the canonical serialization order.
func (s *VotingState) VotedUIDs() []string {
	uids := make([]string, 0, len(s.votedUIDs))
	for uid := range s.votedUIDs {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}
