// Package shamir implements (threshold, n) Shamir secret sharing over
// GF(2^8), byte-wise: each byte of a secret is split independently with a
// random polynomial of degree threshold-1, evaluated at distinct nonzero
// indices in [1, 255].
//
// The field arithmetic follows the classic AES/Shamir GF(256) construction
// used throughout the examples' secret-sharing packages (e.g.
// cyphar/paperback's pkg/shamir), though that package itself splits over a
// big-integer prime field rather than GF(256); the naming and error
// conventions below are grounded on it while the arithmetic follows the
// GF(2^8) byte-wise construction used here.
package shamir

import "errors"

// ErrInvalidParams is returned when threshold/n_shares are out of range:
// threshold < 2, n_shares > 255, or threshold > n_shares.
var ErrInvalidParams = errors.New("shamir: invalid threshold/share-count parameters")

// ErrInsufficientShares is returned by Combine when fewer than the
// scheme's threshold shares are supplied. Since Combine is not told the
// threshold directly, this specifically means fewer than 2 shares, or a
// share carrying the reserved index 0.
var ErrInsufficientShares = errors.New("shamir: insufficient or inconsistent shares")

// ErrDuplicateIndex is returned when two shares passed to Combine carry
// the same index.
var ErrDuplicateIndex = errors.New("shamir: duplicate share index")

// ErrShareLengthMismatch is returned when shares passed to Combine do not
// all have the same byte length.
var ErrShareLengthMismatch = errors.New("shamir: share length mismatch")
