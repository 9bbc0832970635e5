package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvote/voting/internal/crypto/keys"
	"github.com/dvote/voting/internal/crypto/paillier"
	"github.com/dvote/voting/internal/tally"
)

// newGenerateKeysCommand builds the "generate-keys" subcommand: runs the
// Crypto Core, splits the private key into Shamir shares, and persists
// the public key and shares to the configured paths.
func newGenerateKeysCommand() *cobra.Command {
	var nShares, threshold, bits int

	generateKeysCmd := &cobra.Command{
		Use:   "generate-keys",
		Short: "Generate a Paillier key pair and split it into shares",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			gk, err := tally.GenerateKeys(nShares, threshold, bits)
			if err != nil {
				return err
			}

			pubBytes, err := paillier.MarshalPublicKey(gk.PublicKey)
			if err != nil {
				return fmt.Errorf("marshaling public key: %w", err)
			}
			if err := os.WriteFile(cfg.PublicKeyPath(), pubBytes, 0600); err != nil {
				return fmt.Errorf("writing %s: %w", cfg.PublicKeyPath(), err)
			}

			sharesBytes, err := keys.MarshalShares(gk.Shares, gk.Threshold)
			if err != nil {
				return fmt.Errorf("marshaling shares: %w", err)
			}
			if err := os.WriteFile(cfg.SharesPath(), sharesBytes, 0600); err != nil {
				return fmt.Errorf("writing %s: %w", cfg.SharesPath(), err)
			}

			fmt.Printf("public key written to %s\n", cfg.PublicKeyPath())
			fmt.Printf("%d shares (threshold %d) written to %s\n", len(gk.Shares), gk.Threshold, cfg.SharesPath())
			fmt.Println("distribute the shares file to share-holders and remove it from this machine.")
			return nil
		},
	}

	generateKeysCmd.Flags().IntVar(&nShares, "nodes", 5, "number of key shares to generate")
	generateKeysCmd.Flags().IntVar(&threshold, "threshold", 3, "number of shares required to reconstruct the key")
	generateKeysCmd.Flags().IntVar(&bits, "key-length", 1024, "Paillier modulus size in bits")

	return generateKeysCmd
}
