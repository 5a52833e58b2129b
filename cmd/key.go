package cmd

import (
	"fmt"

	"hotspot-control/core/apikey"

	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage API keys",
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print a new random API key",
	Long:  `Prints a key suitable for SERVER_API_KEY.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), apikey.Generate())
		return err
	},
}

func init() {
	keyCmd.AddCommand(keyGenerateCmd)
	RootCmd.AddCommand(keyCmd)
}
