package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Publish rows tagged for promotion",
	Long: `Processes every catalog row with status tagged_for_promotion: checks
the Drive file, ensures vector entries exist, moves the file to the
live folder and finally marks the row live. A failure on one row never
blocks the rest.`,
	RunE: runPromote,
}

func init() {
	rootCmd.AddCommand(promoteCmd)
}

func runPromote(cmd *cobra.Command, _ []string) error {
	if promoterService == nil {
		return errors.New("promoter service not configured")
	}

	results, err := promoterService.Promote(context.Background())
	if err != nil {
		return fmt.Errorf("promotion failed: %w", err)
	}
	if len(results) == 0 {
		cmd.Println("No rows tagged for promotion.")
		return nil
	}

	printRowResults(cmd, results)
	return failOnRowErrors(results)
}

// printRowResults renders one line per processed row.
func printRowResults(cmd *cobra.Command, results []driving.RowResult) {
	for _, r := range results {
		switch r.Outcome {
		case driving.OutcomeApplied:
			cmd.Printf("  ok      %s (%s)\n", r.Identifier, r.FileName)
		case driving.OutcomeSkipped:
			cmd.Printf("  skipped %s (%s): %s\n", r.Identifier, r.FileName, r.Reason)
		case driving.OutcomeFailed:
			cmd.Printf("  FAILED  %s (%s): %s\n", r.Identifier, r.FileName, r.Reason)
		}
	}
}

// failOnRowErrors converts per-row failures into a non-zero exit.
func failOnRowErrors(results []driving.RowResult) error {
	failed := 0
	for _, r := range results {
		if r.Outcome == driving.OutcomeFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d rows failed", failed, len(results))
	}
	return nil
}
