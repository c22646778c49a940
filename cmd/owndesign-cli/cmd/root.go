package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "owndesign-cli",
	Short: "OwnDesign CLI tool",
	Long: `owndesign-cli is a command-line companion for the OwnDesign server.

Available commands:
  fields     List the portfolio design fields and their defaults
  preview    Render the design preview of a stored profile
  migrate    Apply the database schema

Use "owndesign-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
