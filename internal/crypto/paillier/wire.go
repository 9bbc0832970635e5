package paillier

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// publicKeyWire mirrors the on-disk paillier_pubkey.json produced by the
// original CryptoUtils.public_key_to_json: a single decimal-string field.
type publicKeyWire struct {
	N string `json:"n"`
}

// MarshalPublicKey encodes a public key as the JSON object {"n": "<decimal>"}.
func MarshalPublicKey(pub *PublicKey) ([]byte, error) {
	return json.Marshal(publicKeyWire{N: pub.N.String()})
}

// UnmarshalPublicKey decodes a public key from the {"n": "<decimal>"} form.
func UnmarshalPublicKey(data []byte) (*PublicKey, error) {
	var wire publicKeyWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	n, ok := new(big.Int).SetString(wire.N, 10)
	if !ok {
		return nil, fmt.Errorf("%w: n is not a decimal integer", ErrMalformed)
	}
	if n.Sign() <= 0 {
		return nil, fmt.Errorf("%w: n must be positive", ErrMalformed)
	}
	return &PublicKey{N: n}, nil
}
