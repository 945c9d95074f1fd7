package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of target-atlas",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("target-atlas %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
