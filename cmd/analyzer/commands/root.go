package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Multi-factor stock scoring and recommendation engine",
	Long: `Stock Analysis CLI

Scores securities across fundamental, technical, momentum and
sentiment dimensions and produces recommendations with risk and
confidence estimates.

Usage:
  go run ./cmd/analyzer [command]

Examples:
  go run ./cmd/analyzer analyze AAPL
  go run ./cmd/analyzer scan
  go run ./cmd/analyzer api
  go run ./cmd/analyzer scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
