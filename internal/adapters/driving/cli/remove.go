package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove rows tagged for deletion",
	Long: `Processes every catalog row with status tagged_for_deletion: deletes
the Drive file, the Qdrant points and finally the sheet row itself.
Stores where the document is already absent are tolerated, so a re-run
after a partial failure converges.`,
	RunE: runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, _ []string) error {
	if deleterService == nil {
		return errors.New("deleter service not configured")
	}

	results, err := deleterService.Delete(context.Background())
	if err != nil {
		return fmt.Errorf("removal failed: %w", err)
	}
	if len(results) == 0 {
		cmd.Println("No rows tagged for deletion.")
		return nil
	}

	printRowResults(cmd, results)
	return failOnRowErrors(results)
}
