// Package tally implements the Tally Controller: key generation, genesis
// setup, and the reconstruct-decrypt-publish sequence that closes out a
// vote.
package tally

import "errors"

var (
	// ErrVotingNotClosed is returned by Tally when the queried state has
	// not yet passed voting_end_height, or voting_end_height is unset.
	ErrVotingNotClosed = errors.New("tally: voting has not ended")

	// ErrResultAlreadyPublished is returned by Tally when final_result is
	// already set.
	ErrResultAlreadyPublished = errors.New("tally: result already published")

	// ErrInsufficientShares is returned when fewer than threshold shares
	// are supplied to Tally.
	ErrInsufficientShares = errors.New("tally: fewer shares than threshold supplied")

	// ErrBroadcastRejected is returned when the consensus engine accepted
	// the connection but rejected the result transaction.
	ErrBroadcastRejected = errors.New("tally: result transaction rejected")
)
