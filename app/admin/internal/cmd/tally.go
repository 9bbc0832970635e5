package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvote/voting/internal/crypto/keys"
	"github.com/dvote/voting/internal/crypto/paillier"
	"github.com/dvote/voting/internal/rpc"
	"github.com/dvote/voting/internal/tally"
)

// newTallyCommand builds the "tally" subcommand: queries the closed
// election's state, reconstructs the private key from a threshold of
// shares, decrypts the running total, and broadcasts the result.
func newTallyCommand() *cobra.Command {
	var rpcURL, sharesFile string

	tallyCmd := &cobra.Command{
		Use:   "tally",
		Short: "Decrypt the final vote total and publish it to the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
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

			if sharesFile == "" {
				sharesFile = cfg.SharesPath()
			}
			sharesBytes, err := os.ReadFile(sharesFile)
			if err != nil {
				return fmt.Errorf("reading shares %s: %w", sharesFile, err)
			}
			shares, threshold, err := keys.UnmarshalShares(sharesBytes)
			if err != nil {
				return fmt.Errorf("parsing shares: %w", err)
			}

			client := rpc.New(rpcURL)
			result, err := tally.Tally(cmd.Context(), client, pub, shares, threshold)
			if err != nil {
				return err
			}

			fmt.Println(result.Payload)
			return nil
		},
	}

	tallyCmd.Flags().StringVar(&rpcURL, "tendermint-rpc", "http://127.0.0.1:26657", "base URL of the consensus engine's RPC endpoint")
	tallyCmd.Flags().StringVar(&sharesFile, "shares", "", "path to a shares file gathered from share-holders (defaults to the node's own)")

	return tallyCmd
}
