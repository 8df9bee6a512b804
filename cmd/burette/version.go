package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/burette"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of burette",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("burette version %s\n", strings.TrimSpace(burette.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
