package keys

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// shareWire mirrors one entry of the on-disk sss_shares.json produced by
// the original admin CLI's generate-keys command.
type shareWire struct {
	Index  byte   `json:"index"`
	PShare string `json:"p_share"`
	QShare string `json:"q_share"`
}

// sharesFileWire mirrors the top-level sss_shares.json document:
// {"shares": [...], "threshold": t}.
type sharesFileWire struct {
	Shares    []shareWire `json:"shares"`
	Threshold int         `json:"threshold"`
}

// MarshalShares encodes a shares collection and its threshold as the JSON
// document persisted to sss_shares.json.
func MarshalShares(shares []Share, threshold int) ([]byte, error) {
	wire := sharesFileWire{
		Shares:    make([]shareWire, len(shares)),
		Threshold: threshold,
	}
	for i, s := range shares {
		wire.Shares[i] = shareWire{
			Index:  s.Index,
			PShare: hex.EncodeToString(s.PShare),
			QShare: hex.EncodeToString(s.QShare),
		}
	}
	return json.MarshalIndent(wire, "", "  ")
}

// UnmarshalShares decodes a sss_shares.json document, returning its shares
// and the threshold it was generated with.
func UnmarshalShares(data []byte) ([]Share, int, error) {
	var wire sharesFileWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, 0, fmt.Errorf("keys: malformed shares document: %w", err)
	}

	shares := make([]Share, len(wire.Shares))
	for i, w := range wire.Shares {
		pShare, err := hex.DecodeString(w.PShare)
		if err != nil {
			return nil, 0, fmt.Errorf("keys: malformed p_share at index %d: %w", w.Index, err)
		}
		qShare, err := hex.DecodeString(w.QShare)
		if err != nil {
			return nil, 0, fmt.Errorf("keys: malformed q_share at index %d: %w", w.Index, err)
		}
		shares[i] = Share{Index: w.Index, PShare: pShare, QShare: qShare}
	}
	return shares, wire.Threshold, nil
}
