package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ehf-cli version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ehf-cli " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
