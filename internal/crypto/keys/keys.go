package keys

import (
	"fmt"
	"math/big"

	"github.com/dvote/voting/internal/crypto/paillier"
	"github.com/dvote/voting/internal/crypto/shamir"
)

// Share is one participant's fragment of a split private key: the prime
// factors p and q, shared independently under the same index, as
// big-endian minimal-byte-length encodings.
type Share struct {
	Index  byte
	PShare []byte
	QShare []byte
}

// Split implements split_private_key: p and q are split independently
// with shamir.Split, using the same index set for both so that Share i's
// PShare and QShare were produced by evaluating each polynomial at the
// same x.
func Split(priv *paillier.PrivateKey, nShares, threshold int) ([]Share, error) {
	pShares, err := shamir.Split(priv.P.Bytes(), nShares, threshold)
	if err != nil {
		return nil, fmt.Errorf("splitting p: %w", err)
	}
	qShares, err := shamir.Split(priv.Q.Bytes(), nShares, threshold)
	if err != nil {
		return nil, fmt.Errorf("splitting q: %w", err)
	}

	shares := make([]Share, nShares)
	for i := range shares {
		shares[i] = Share{
			Index:  pShares[i].Index,
			PShare: pShares[i].Bytes,
			QShare: qShares[i].Bytes,
		}
	}
	return shares, nil
}

// Recover implements recover_private_key: combine the p_share and
// q_share sequences independently, interpret each as a big-endian
// integer, and reconstruct the private key against pub. Returns
// ErrKeyRecoveryMismatch if p*q does not equal pub.N.
func Recover(shares []Share, pub *paillier.PublicKey) (*paillier.PrivateKey, error) {
	pShares := make([]shamir.Share, len(shares))
	qShares := make([]shamir.Share, len(shares))
	for i, s := range shares {
		pShares[i] = shamir.Share{Index: s.Index, Bytes: s.PShare}
		qShares[i] = shamir.Share{Index: s.Index, Bytes: s.QShare}
	}

	pBytes, err := shamir.Combine(pShares)
	if err != nil {
		return nil, fmt.Errorf("combining p shares: %w", err)
	}
	qBytes, err := shamir.Combine(qShares)
	if err != nil {
		return nil, fmt.Errorf("combining q shares: %w", err)
	}

	p := new(big.Int).SetBytes(pBytes)
	q := new(big.Int).SetBytes(qBytes)

	priv, err := paillier.NewPrivateKey(p, q, pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyRecoveryMismatch, err)
	}
	return priv, nil
}
