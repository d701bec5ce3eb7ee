// Package main provides the plib CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "plib",
	Short: "Personal library of academic papers",
	Long: `plib maintains a durable personal database of academic papers,
each linked to its ADS record.

Papers added from arXiv are reconciled against ADS over time, so a
preprint that later appears in a journal picks up its formal record
without losing your notes, tags, or citation keys. All commands output
JSON by default; pass --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Credentials (ADS_API_TOKEN) may live in a .env file.
		_ = godotenv.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
