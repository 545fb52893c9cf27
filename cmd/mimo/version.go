package main

import (
	"fmt"

	"github.com/aretw0/mimo"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of mimo",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mimo version %s\n", mimo.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
