package main

import (
	"os"
	"scene-frames/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "scene-frames",
		Short:        "Extract representative scene frames from a directory of videos",
		SilenceUsage: true,
	}
	cmd.AddCommands(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
