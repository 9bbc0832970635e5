// Package keys splits and reconstructs Paillier private keys via Shamir
// secret sharing of their prime factors.
package keys

import "errors"

// ErrKeyRecoveryMismatch is returned by Recover when the reconstructed
// p*q does not equal the expected public modulus n. The tally controller
// treats this as fatal.
var ErrKeyRecoveryMismatch = errors.New("keys: reconstructed p*q does not match public modulus")
