// Package paillier implements the Paillier additively-homomorphic
// public-key cryptosystem used to accumulate encrypted ballots without
// ever exposing an individual vote.
//
// Grounded on the construction described in didiercrunch/paillier and
// bnb-chain/tss-lib's crypto/paillier package: g is fixed to n+1 (safe
// for threshold use per Damgard-Jurik-Nielsen 2010 section 5.1), and
// decryption follows the L(x)=(x-1)/n, mu=L((1+n)^lambda mod n^2)^-1
// construction from Katz & Lindell construction 11.32.
package paillier

import "errors"

// ErrKeygen is returned when key generation fails, typically because the
// cryptographically-secure random source could not supply enough entropy.
var ErrKeygen = errors.New("paillier: key generation failed")

// ErrRange is returned by Encrypt when the plaintext is outside [0, n).
var ErrRange = errors.New("paillier: plaintext out of range")

// ErrDomain is returned when an operation combines ciphertexts or keys
// that do not share the same modulus n.
var ErrDomain = errors.New("paillier: ciphertexts belong to different moduli")

// ErrMalformed is returned when a serialized ciphertext or key cannot be
// parsed.
var ErrMalformed = errors.New("paillier: malformed encoding")
