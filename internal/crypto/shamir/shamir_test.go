package shamir

import (
	"bytes"
	"errors"
	"testing"
)

func TestSplitCombineRoundTrip(t *testing.T) {
	secret := []byte("a threshold secret of arbitrary length, byte-wise split")

	shares, err := Split(secret, 5, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(shares) != 5 {
		t.Fatalf("got %d shares, want 5", len(shares))
	}
	for _, s := range shares {
		if len(s.Bytes) != len(secret) {
			t.Fatalf("share length %d, want %d", len(s.Bytes), len(secret))
		}
	}

	got, err := Combine(shares[:3])
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if !bytes.Equal(got, secret) {
		t.Errorf("Combine(threshold shares) = %q, want %q", got, secret)
	}
}

func TestCombineAnyThresholdSubsetWorks(t *testing.T) {
	secret := []byte{0x00, 0xff, 0x42, 0x13, 0x37}
	shares, err := Split(secret, 5, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	subsets := [][]int{{0, 1, 2}, {0, 2, 4}, {1, 3, 4}, {2, 3, 4}}
	for _, idxs := range subsets {
		subset := make([]Share, len(idxs))
		for i, idx := range idxs {
			subset[i] = shares[idx]
		}
		got, err := Combine(subset)
		if err != nil {
			t.Fatalf("Combine(%v): %v", idxs, err)
		}
		if !bytes.Equal(got, secret) {
			t.Errorf("Combine(%v) = %x, want %x", idxs, got, secret)
		}
	}
}

func TestCombineBelowThresholdDoesNotReconstruct(t *testing.T) {
	secret := []byte("another secret needing at least three shares")
	shares, err := Split(secret, 5, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	got, err := Combine(shares[:2])
	if err != nil {
		// Combine doesn't know the original threshold, so it is not
		// required to error; if it doesn't, it must not match.
		if bytes.Equal(got, secret) {
			t.Fatal("combining 2-of-3 shares reconstructed the secret")
		}
		return
	}
	if bytes.Equal(got, secret) {
		t.Fatal("combining 2-of-3 shares reconstructed the secret")
	}
}

func TestSplitRejectsInvalidParams(t *testing.T) {
	secret := []byte("x")

	cases := []struct {
		n, k int
	}{
		{5, 1},   // threshold < 2
		{1, 2},   // threshold > n
		{256, 2}, // n > 255
	}
	for _, c := range cases {
		if _, err := Split(secret, c.n, c.k); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("Split(n=%d,k=%d): got %v, want ErrInvalidParams", c.n, c.k, err)
		}
	}
}

func TestCombineRejectsDuplicateIndex(t *testing.T) {
	shares := []Share{
		{Index: 1, Bytes: []byte{1, 2}},
		{Index: 1, Bytes: []byte{3, 4}},
	}
	if _, err := Combine(shares); !errors.Is(err, ErrDuplicateIndex) {
		t.Fatalf("got %v, want ErrDuplicateIndex", err)
	}
}

func TestCombineRejectsLengthMismatch(t *testing.T) {
	shares := []Share{
		{Index: 1, Bytes: []byte{1, 2, 3}},
		{Index: 2, Bytes: []byte{1, 2}},
	}
	if _, err := Combine(shares); !errors.Is(err, ErrShareLengthMismatch) {
		t.Fatalf("got %v, want ErrShareLengthMismatch", err)
	}
}

func TestCombineRejectsTooFewShares(t *testing.T) {
	shares := []Share{{Index: 1, Bytes: []byte{1}}}
	if _, err := Combine(shares); !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("got %v, want ErrInsufficientShares", err)
	}
}

func TestSplitEmptySecret(t *testing.T) {
	shares, err := Split(nil, 3, 2)
	if err != nil {
		t.Fatalf("Split(nil): %v", err)
	}
	got, err := Combine(shares[:2])
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestGF256MulDivInverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		for b := 1; b < 256; b++ {
			product := gf256Mul(byte(a), byte(b))
			back := gf256Div(product, byte(b))
			if back != byte(a) {
				t.Fatalf("gf256Div(gf256Mul(%d,%d), %d) = %d, want %d", a, b, b, back, a)
			}
		}
	}
}
