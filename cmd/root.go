package cmd

import "github.com/spf13/cobra"

// AddCommands registers subcommands. Running the root command with no
// subcommand performs an extract with default settings.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.RunE = runExtract
}
