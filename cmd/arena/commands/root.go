package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "Trade Arena - trading performance ranking service",
	Long: `Trade Arena Ranking Service CLI

Computes normalized performance metrics, consistency scores and rank
tiers from user trade histories, and serves the leaderboard API.

Usage:
  go run ./cmd/arena [command]

Examples:
  go run ./cmd/arena api
  go run ./cmd/arena recompute
  go run ./cmd/arena scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
