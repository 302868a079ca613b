package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "questlang",
		Short: "A toolchain for game quest definition files",
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newScanCmd())

	rootCmd.AddCommand(newUICmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newCreditsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
