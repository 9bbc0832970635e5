package shamir

import (
	"crypto/rand"
	"fmt"
)

// Share is one participant's fragment of a split secret: the same byte
// length as the secret, evaluated at a polynomial index in [1, 255].
type Share struct {
	Index byte
	Bytes []byte
}

// Split implements a (threshold, nShares) Shamir scheme over GF(2^8),
// byte-wise. Each byte of secret is
// split independently with an independent random polynomial of degree
// threshold-1; all bytes are evaluated at the same nShares indices
// 1..nShares. Requires 2 <= threshold <= nShares <= 255.
func Split(secret []byte, nShares, threshold int) ([]Share, error) {
	if threshold < 2 || nShares > 255 || threshold > nShares {
		return nil, fmt.Errorf("%w: threshold=%d nShares=%d", ErrInvalidParams, threshold, nShares)
	}

	shares := make([]Share, nShares)
	for i := 0; i < nShares; i++ {
		shares[i] = Share{Index: byte(i + 1), Bytes: make([]byte, len(secret))}
	}

	coeffs := make([]byte, threshold)
	for byteIdx, secretByte := range secret {
		coeffs[0] = secretByte
		if _, err := rand.Read(coeffs[1:]); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}

		for i := 0; i < nShares; i++ {
			x := byte(i + 1)
			shares[i].Bytes[byteIdx] = evalPoly(coeffs, x)
		}
	}

	return shares, nil
}

// evalPoly evaluates the polynomial with the given coefficients (constant
// term first) at x, using Horner's method in GF(2^8).
func evalPoly(coeffs []byte, x byte) byte {
	result := byte(0)
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = gf256Add(gf256Mul(result, x), coeffs[i])
	}
	return result
}

// Combine reconstructs the secret via Lagrange interpolation at x=0 in
// GF(2^8), byte-wise. Requires at least two shares with distinct nonzero
// indices and equal byte length; supplying fewer shares than the original
// threshold is not detected here (that is information-theoretically
// impossible) and yields a value indistinguishable from random.
func Combine(shares []Share) ([]byte, error) {
	if len(shares) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 shares, got %d", ErrInsufficientShares, len(shares))
	}

	length := len(shares[0].Bytes)
	seen := make(map[byte]bool, len(shares))
	for _, s := range shares {
		if s.Index == 0 {
			return nil, fmt.Errorf("%w: index 0 is reserved for the secret itself", ErrInsufficientShares)
		}
		if seen[s.Index] {
			return nil, fmt.Errorf("%w: index %d", ErrDuplicateIndex, s.Index)
		}
		seen[s.Index] = true
		if len(s.Bytes) != length {
			return nil, ErrShareLengthMismatch
		}
	}

	secret := make([]byte, length)
	for byteIdx := 0; byteIdx < length; byteIdx++ {
		secret[byteIdx] = lagrangeAtZero(shares, byteIdx)
	}
	return secret, nil
}

// lagrangeAtZero interpolates the polynomial through the given shares'
// byteIdx-th coordinate and evaluates it at x=0, i.e. recovers the
// constant term (the secret byte).
func lagrangeAtZero(shares []Share, byteIdx int) byte {
	result := byte(0)
	for i, si := range shares {
		xi := si.Index
		yi := si.Bytes[byteIdx]

		num := byte(1)
		den := byte(1)
		for j, sj := range shares {
			if i == j {
				continue
			}
			xj := sj.Index
			num = gf256Mul(num, xj)
			den = gf256Mul(den, gf256Add(xi, xj))
		}
		term := gf256Mul(yi, gf256Div(num, den))
		result = gf256Add(result, term)
	}
	return result
}
