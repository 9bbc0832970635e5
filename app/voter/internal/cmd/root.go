package cmd

import (
	"fmt"
	"math/big"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dvote/voting/internal/config"
	"github.com/dvote/voting/internal/crypto/paillier"
	"github.com/dvote/voting/internal/rpc"
)

// rootCmd is the voter CLI: a single command that encrypts and submits
// one vote.
var rootCmd = &cobra.Command{
	Use:   "dvote-voter",
	Short: "Cast an encrypted vote against the voting ledger",
	RunE:  runVote,
}

func init() {
	rootCmd.Flags().String("uid", "", "voter identifier (defaults to a random UUID)")
	rootCmd.Flags().Int("vote", -1, "vote choice, 0 or 1")
	rootCmd.Flags().String("tendermint-rpc", "http://127.0.0.1:26657", "base URL of the consensus engine's RPC endpoint")
	rootCmd.Flags().String("config", "", "path to node.yaml (defaults to ~/.dvote-voting layout, used to locate the cached public key)")
	_ = rootCmd.MarkFlagRequired("vote")
}

// validateVote rejects anything but a binary vote choice.
func validateVote(vote int) error {
	if vote != 0 && vote != 1 {
		return fmt.Errorf("--vote must be 0 or 1, got %d", vote)
	}
	return nil
}

func runVote(cmd *cobra.Command, args []string) error {
	uid, _ := cmd.Flags().GetString("uid")
	if uid == "" {
		uid = uuid.NewString()
	}
	vote, _ := cmd.Flags().GetInt("vote")
	if err := validateVote(vote); err != nil {
		return err
	}
	rpcURL, _ := cmd.Flags().GetString("tendermint-rpc")
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	pubBytes, err := os.ReadFile(cfg.PublicKeyPath())
	if err != nil {
		return fmt.Errorf("reading public key %s: %w", cfg.PublicKeyPath(), err)
	}
	pub, err := paillier.UnmarshalPublicKey(pubBytes)
	if err != nil {
		return fmt.Errorf("parsing public key: %w", err)
	}

	enc, err := pub.Encrypt(big.NewInt(int64(vote)))
	if err != nil {
		return fmt.Errorf("encrypting vote: %w", err)
	}
	tx := []byte(fmt.Sprintf("vote:%s:%s", uid, enc.String()))

	client := rpc.New(rpcURL)
	result, err := client.BroadcastTxCommit(cmd.Context(), tx)
	if err != nil {
		return fmt.Errorf("broadcasting vote: %w", err)
	}
	if !result.Accepted() || result.DeliverTxLog != "ok" {
		return fmt.Errorf("vote rejected: check_tx=%q deliver_tx=%q", result.CheckTxLog, result.DeliverTxLog)
	}

	fmt.Printf("vote cast: uid=%s\n", uid)
	return nil
}

// Execute runs the root command, printing any error and exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
