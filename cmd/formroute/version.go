package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/formroute/formroute"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of formroute",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("formroute version %s\n", strings.TrimSpace(formroute.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
