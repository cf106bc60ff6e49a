package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// recomputeCmd triggers a single ranking pass from the command line
var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Run one ranking recomputation pass",
	Long: `Recomputes rankings for every user with at least one trade and
upserts the resulting records. Exits non-zero if the pass cannot start;
per-user failures are counted but do not fail the pass.

Example:
  go run ./cmd/arena recompute`,
	RunE: runRecompute,
}

func init() {
	rootCmd.AddCommand(recomputeCmd)
}

func runRecompute(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Trade Arena Ranking Pass ===")

	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	result, err := d.orchestrator.Run(context.Background())
	if err != nil {
		return fmt.Errorf("ranking pass: %w", err)
	}

	fmt.Printf("\nPass completed in %s\n", result.Duration)
	fmt.Printf("  processed: %d\n", result.Processed)
	fmt.Printf("  skipped:   %d (no trades)\n", result.Skipped)
	fmt.Printf("  failed:    %d\n", result.Failed)

	return nil
}
