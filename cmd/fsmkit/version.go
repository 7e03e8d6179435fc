package main

import (
	"fmt"

	"github.com/aretw0/fsmkit"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fsmkit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fsmkit version %s\n", fsmkit.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
