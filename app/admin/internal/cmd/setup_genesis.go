package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dvote/voting/internal/tally"
)

// newSetupGenesisCommand builds the "setup-genesis" subcommand: emits the
// app_state genesis fragment an operator pastes into the consensus
// engine's genesis.json.
func newSetupGenesisCommand() *cobra.Command {
	var endHeight int64

	setupGenesisCmd := &cobra.Command{
		Use:   "setup-genesis",
		Short: "Print the app_state genesis fragment for a given voting end height",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := tally.SetupGenesis(endHeight)
			if err != nil {
				return err
			}
			cmd.Println(string(data))
			return nil
		},
	}

	setupGenesisCmd.Flags().Int64Var(&endHeight, "end-height", 0, "block height at which voting closes")
	_ = setupGenesisCmd.MarkFlagRequired("end-height")

	return setupGenesisCmd
}
