package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvote/voting/internal/config"
)

// appName is the application name used in CLI output and help text.
const appName = "dvote-admin"

// rootCmd is the root command for the election administrator CLI. It
// performs no action itself; all work happens in the registered
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "dvote-admin",
	Short: appName + " - election setup and tallying for the voting ledger",
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to node.yaml (defaults to ~/.dvote-voting layout)")
}

// Initialize registers every admin subcommand against rootCmd.
func Initialize() {
	rootCmd.AddCommand(newGenerateKeysCommand())
	rootCmd.AddCommand(newSetupGenesisCommand())
	rootCmd.AddCommand(newTallyCommand())
}

// Execute runs the root command, printing any error and exiting non-zero.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.NodeConfig, error) {
	configFile, _ := cmd.Flags().GetString("config")
	return config.Load(configFile)
}
