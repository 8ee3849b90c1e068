// Package cmd provides the command-line interface for blocksim.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "blocksim",
	Short: "Blocksim simulates a block-addressed storage device behind a " +
		"checksum-verified register bus.",
	Long: `Blocksim simulates a block-addressed storage device behind a ` +
		`checksum-verified register bus. It runs workload scripts against ` +
		`the simulated device and can record bus traffic into SQLite.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
