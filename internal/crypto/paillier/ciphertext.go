package paillier

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// EncryptedNumber is a residue in Z/n^2Z. It carries its modulus alongside
// the ciphertext so that Add can reject ciphertexts minted under a
// different public key.
type EncryptedNumber struct {
	C *big.Int
	N *big.Int
}

// EncodedZero returns the canonical "no votes yet" ciphertext: the fixed
// integer 1, which decrypts to 0 under any Paillier modulus without
// requiring a random nonce. Using a fixed value
// instead of a freshly-sampled Enc(0) keeps every replica's initial state
// byte-identical.
func EncodedZero(n *big.Int) *EncryptedNumber {
	return &EncryptedNumber{C: big.NewInt(1), N: new(big.Int).Set(n)}
}

// getRandomZn picks a uniformly random element of (Z/nZ)*, retrying on the
// astronomically unlikely event that the sample shares a factor with n.
func getRandomZn(n *big.Int) (*big.Int, error) {
	for {
		r, err := rand.Int(rand.Reader, n)
		if err != nil {
			return nil, err
		}
		if r.Sign() == 0 {
			continue
		}
		if new(big.Int).GCD(nil, nil, r, n).Cmp(bigOne) == 0 {
			return r, nil
		}
	}
}

// Encrypt produces c = (1+n)^m * r^n mod n^2 for a random r in (Z/nZ)*.
// m must satisfy 0 <= m < n.
func (pub *PublicKey) Encrypt(m *big.Int) (*EncryptedNumber, error) {
	if m.Sign() < 0 || m.Cmp(pub.N) >= 0 {
		return nil, fmt.Errorf("%w: %v not in [0, %v)", ErrRange, m, pub.N)
	}

	r, err := getRandomZn(pub.N)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeygen, err)
	}

	nSquare := pub.NSquare()
	gm := new(big.Int).Exp(pub.G(), m, nSquare)
	rn := new(big.Int).Exp(r, pub.N, nSquare)
	c := new(big.Int).Mod(new(big.Int).Mul(gm, rn), nSquare)

	return &EncryptedNumber{C: c, N: new(big.Int).Set(pub.N)}, nil
}

// Decrypt recovers m = L(c^lambda mod n^2) * mu mod n.
func (priv *PrivateKey) Decrypt(c *EncryptedNumber) (*big.Int, error) {
	if c.N.Cmp(priv.N) != 0 {
		return nil, ErrDomain
	}

	nSquare := priv.NSquare()
	cLambda := new(big.Int).Exp(c.C, priv.lambda, nSquare)
	lValue := L(cLambda, priv.N)

	m := new(big.Int).Mod(new(big.Int).Mul(lValue, priv.mu), priv.N)
	return m, nil
}

// Add computes the homomorphic sum Enc(a) (+) Enc(b) = Enc(a+b mod n) via
// ciphertext multiplication modulo n^2. Both operands must share the same
// modulus, otherwise ErrDomain is returned.
func Add(a, b *EncryptedNumber) (*EncryptedNumber, error) {
	if a.N.Cmp(b.N) != 0 {
		return nil, ErrDomain
	}
	nSquare := new(big.Int).Mul(a.N, a.N)
	sum := new(big.Int).Mod(new(big.Int).Mul(a.C, b.C), nSquare)
	return &EncryptedNumber{C: sum, N: new(big.Int).Set(a.N)}, nil
}

// String encodes the ciphertext as its decimal integer, the wire format
// used in vote transactions and the persisted app_state.json.
func (c *EncryptedNumber) String() string {
	return c.C.String()
}

// ParseEncryptedNumber decodes a decimal ciphertext string under the given
// public key, rejecting values outside [0, n^2).
func ParseEncryptedNumber(pub *PublicKey, s string) (*EncryptedNumber, error) {
	c, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a decimal integer", ErrMalformed, s)
	}
	nSquare := pub.NSquare()
	if c.Sign() < 0 || c.Cmp(nSquare) >= 0 {
		return nil, fmt.Errorf("%w: ciphertext out of range", ErrRange)
	}
	return &EncryptedNumber{C: c, N: new(big.Int).Set(pub.N)}, nil
}
