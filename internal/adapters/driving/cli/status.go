package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

var statusIssuesOnly bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Reconcile the three stores and report drift",
	Long: `Lists the sheet, Drive and Qdrant to exhaustion, joins the listings
by document identifier and reports one line per identifier with its
presence in each store and any detected anomalies. The run is saved to
the local report database.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusIssuesOnly, "issues", false, "only show identifiers with issues")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if reconcilerService == nil {
		return errors.New("reconciler service not configured")
	}

	run, err := reconcilerService.Run(context.Background())
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	entries := run.Entries
	if statusIssuesOnly {
		entries = run.Issues()
	}

	cmd.Printf("Reconciled %d identifiers in %s (%d with issues)\n",
		len(run.Entries),
		run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond),
		len(run.Issues()))
	if run.ID != 0 {
		cmd.Printf("Saved as run %d\n", run.ID)
	}

	if len(entries) == 0 {
		if statusIssuesOnly {
			cmd.Println("No issues found.")
		}
		return nil
	}

	cmd.Println()
	for _, entry := range entries {
		cmd.Printf("%s  sheet=%s drive=%s qdrant=%s records=%d match=%s\n",
			entry.Identifier,
			presence(entry.InSheet), presence(entry.InDrive), presence(entry.InQdrant),
			entry.RecordCount, entry.FileIDsMatch)
		if len(entry.Issues) > 0 {
			cmd.Printf("    issues: %s\n", strings.Join(entry.Issues, "; "))
		}
	}
	return nil
}

func presence(in bool) string {
	if in {
		return "yes"
	}
	return "no"
}

// entrySummary is the single-line view used by status and report show.
func entrySummary(entry domain.StatusEntry) string {
	return fmt.Sprintf("%s sheet=%s drive=%s qdrant=%s issues=%d",
		entry.Identifier,
		presence(entry.InSheet), presence(entry.InDrive), presence(entry.InQdrant),
		len(entry.Issues))
}
