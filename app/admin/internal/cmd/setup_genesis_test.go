package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSetupGenesisCommandPrintsFragment(t *testing.T) {
	cmd := newSetupGenesisCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--end-height", "100"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	var fragment struct {
		VotingEndHeight int64 `json:"voting_end_height"`
	}
	if err := json.Unmarshal(out.Bytes(), &fragment); err != nil {
		t.Fatalf("unmarshaling printed fragment: %v", err)
	}
	if fragment.VotingEndHeight != 100 {
		t.Errorf("VotingEndHeight = %d, want 100", fragment.VotingEndHeight)
	}
}

func TestSetupGenesisCommandRequiresEndHeight(t *testing.T) {
	cmd := newSetupGenesisCommand()
	cmd.SetArgs([]string{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when --end-height is omitted")
	}
}
