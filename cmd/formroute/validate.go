package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/formroute/formroute/pkg/adapters/yamlform"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check form definitions for consistency",
	Long:  `Parses each form definition and reports dangling goto targets, unknown rule types and duplicate positions.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		failed := false
		for _, path := range args {
			if _, err := yamlform.Load(path); err != nil {
				fmt.Printf("%s: %v\n", path, err)
				failed = true
				continue
			}
			fmt.Printf("%s: ok\n", path)
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
