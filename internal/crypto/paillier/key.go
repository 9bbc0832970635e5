package paillier

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// PublicKey is the Paillier composite modulus n. It is immutable once
// created and safe to share across every replica.
type PublicKey struct {
	N *big.Int
}

// NSquare returns n^2, the group EncryptedNumber values live in.
func (pub *PublicKey) NSquare() *big.Int {
	return new(big.Int).Mul(pub.N, pub.N)
}

// G returns the fixed generator n+1 used throughout this package.
func (pub *PublicKey) G() *big.Int {
	return new(big.Int).Add(pub.N, bigOne)
}

// PrivateKey holds the two prime factors of n plus the public key they
// produce. It exists only transiently: in the key-generation process, and
// in the tally controller's memory after threshold reconstruction. It is
// never persisted in whole form.
type PrivateKey struct {
	PublicKey
	P, Q   *big.Int
	lambda *big.Int
	mu     *big.Int
}

// Zeroize overwrites the private key's sensitive material. Callers that
// reconstruct a PrivateKey via threshold recovery must call this once the
// decrypted tally has been extracted.
func (priv *PrivateKey) Zeroize() {
	zero := func(z *big.Int) {
		if z == nil {
			return
		}
		words := z.Bits()
		for i := range words {
			words[i] = 0
		}
		z.SetInt64(0)
	}
	zero(priv.P)
	zero(priv.Q)
	zero(priv.lambda)
	zero(priv.mu)
}

// lcm returns the least common multiple of a and b.
func lcm(a, b *big.Int) *big.Int {
	gcd := new(big.Int).GCD(nil, nil, a, b)
	product := new(big.Int).Mul(a, b)
	return product.Div(product, gcd)
}

// L implements the Paillier L(x) = (x-1)/n function used in both key
// derivation and decryption.
func L(x, n *big.Int) *big.Int {
	t := new(big.Int).Sub(x, bigOne)
	return t.Div(t, n)
}

// derive computes lambda and mu for a private key whose p, q, and N are
// already populated:
// lambda = lcm(p-1, q-1); mu = L((1+n)^lambda mod n^2)^-1 mod n.
func (priv *PrivateKey) derive() error {
	pMinus1 := new(big.Int).Sub(priv.P, bigOne)
	qMinus1 := new(big.Int).Sub(priv.Q, bigOne)
	priv.lambda = lcm(pMinus1, qMinus1)

	nSquare := priv.NSquare()
	gLambda := new(big.Int).Exp(priv.G(), priv.lambda, nSquare)
	lValue := L(gLambda, priv.N)

	mu := new(big.Int).ModInverse(lValue, priv.N)
	if mu == nil {
		return fmt.Errorf("%w: lambda not invertible mod n", ErrKeygen)
	}
	priv.mu = mu
	return nil
}

// NewPrivateKey reconstructs a private key from its prime factors and the
// public key they must produce. Used by both fresh generation and
// threshold recovery. Returns ErrKeygen if p*q does not equal pub.N.
func NewPrivateKey(p, q *big.Int, pub *PublicKey) (*PrivateKey, error) {
	n := new(big.Int).Mul(p, q)
	if n.Cmp(pub.N) != 0 {
		return nil, fmt.Errorf("%w: p*q does not match public modulus", ErrKeygen)
	}
	priv := &PrivateKey{
		PublicKey: *pub,
		P:         new(big.Int).Set(p),
		Q:         new(big.Int).Set(q),
	}
	if err := priv.derive(); err != nil {
		return nil, err
	}
	return priv, nil
}

// GenerateKeyPair generates a fresh Paillier key pair with a modulus of
// approximately `bits` bits (default 1024), using a
// cryptographically-secure random source. Returns ErrKeygen on RNG or
// primality-search failure, or if the chosen primes do not satisfy
// gcd(pq, (p-1)(q-1)) = 1.
func GenerateKeyPair(bits int) (*PublicKey, *PrivateKey, error) {
	if bits < 16 {
		return nil, nil, fmt.Errorf("%w: key length too small", ErrKeygen)
	}
	primeBits := bits / 2

	for {
		p, err := rand.Prime(rand.Reader, primeBits)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrKeygen, err)
		}
		q, err := rand.Prime(rand.Reader, primeBits)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrKeygen, err)
		}
		if p.Cmp(q) == 0 {
			continue
		}

		n := new(big.Int).Mul(p, q)
		pMinus1 := new(big.Int).Sub(p, bigOne)
		qMinus1 := new(big.Int).Sub(q, bigOne)
		phi := new(big.Int).Mul(pMinus1, qMinus1)

		// gcd(n, phi) = 1 holds automatically for distinct odd primes
		// produced by crypto/rand.Prime, but we verify it explicitly
		// since the security of the scheme depends on it.
		g := new(big.Int).GCD(nil, nil, n, phi)
		if g.Cmp(bigOne) != 0 {
			continue
		}

		pub := &PublicKey{N: n}
		priv, err := NewPrivateKey(p, q, pub)
		if err != nil {
			continue
		}
		return pub, priv, nil
	}
}
