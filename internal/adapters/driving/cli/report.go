package cli

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

var reportOut string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Inspect saved reconciliation runs",
	RunE:  runReportList,
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs",
	RunE:  runReportList,
}

var reportShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run (latest when no ID is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReportShow,
}

var reportExportCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export one run as CSV (latest when no ID is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReportExport,
}

var reportEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the lifecycle audit log",
	RunE:  runReportEvents,
}

var reportEventsLimit int

func init() {
	reportExportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "write CSV to this file instead of stdout")
	reportEventsCmd.Flags().IntVarP(&reportEventsLimit, "limit", "n", 50, "maximum events to show (0 = all)")
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
	reportCmd.AddCommand(reportExportCmd)
	reportCmd.AddCommand(reportEventsCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReportList(cmd *cobra.Command, _ []string) error {
	if reportStore == nil {
		return errors.New("report store not configured")
	}

	runs, err := reportStore.ListRuns(context.Background())
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No saved runs. Run 'librarian status' first.")
		return nil
	}

	for _, run := range runs {
		cmd.Printf("  run %d  %s  (%s)\n",
			run.ID,
			run.StartedAt.Format(time.RFC3339),
			run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond))
	}
	return nil
}

func runReportShow(cmd *cobra.Command, args []string) error {
	run, err := loadRun(args)
	if err != nil {
		return err
	}

	cmd.Printf("Run %d: %d identifiers, %d with issues\n",
		run.ID, len(run.Entries), len(run.Issues()))
	for _, entry := range run.Entries {
		cmd.Printf("  %s\n", entrySummary(entry))
		if len(entry.Issues) > 0 {
			cmd.Printf("    issues: %s\n", strings.Join(entry.Issues, "; "))
		}
	}
	return nil
}

func runReportExport(cmd *cobra.Command, args []string) error {
	run, err := loadRun(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if reportOut != "" {
		f, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", reportOut, err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write(domain.ReportColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, entry := range run.Entries {
		if err := w.Write(reportRecord(entry)); err != nil {
			return fmt.Errorf("writing entry %s: %w", entry.Identifier, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	if reportOut != "" {
		cmd.Printf("Exported run %d (%d entries) to %s\n", run.ID, len(run.Entries), reportOut)
	}
	return nil
}

func runReportEvents(cmd *cobra.Command, _ []string) error {
	if eventLog == nil {
		return errors.New("event log not configured")
	}

	events, err := eventLog.List(context.Background(), reportEventsLimit)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	if len(events) == 0 {
		cmd.Println("No recorded events.")
		return nil
	}

	for _, e := range events {
		cmd.Printf("  %s  %-22s %s", e.At.Format(time.RFC3339), e.Action, e.Identifier)
		if e.Detail != "" {
			cmd.Printf("  (%s)", e.Detail)
		}
		cmd.Println()
	}
	return nil
}

// loadRun resolves the run named by args, defaulting to the latest.
func loadRun(args []string) (*domain.ReconciliationRun, error) {
	if reportStore == nil {
		return nil, errors.New("report store not configured")
	}
	ctx := context.Background()

	if len(args) == 0 {
		run, err := reportStore.LatestRun(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, errors.New("no saved runs; run 'librarian status' first")
			}
			return nil, fmt.Errorf("loading latest run: %w", err)
		}
		return run, nil
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid run ID %q", args[0])
	}
	run, err := reportStore.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading run %d: %w", id, err)
	}
	return run, nil
}

// reportRecord flattens one entry into the frozen report column order.
func reportRecord(e domain.StatusEntry) []string {
	return []string{
		e.Identifier,
		e.Title,
		e.FileName,
		e.SheetFileID,
		strings.Join(e.QdrantFileIDs, ";"),
		strconv.FormatBool(e.InSheet),
		strconv.FormatBool(e.InDrive),
		strconv.FormatBool(e.InQdrant),
		strconv.Itoa(e.RecordCount),
		strconv.Itoa(e.PageCount),
		strconv.Itoa(e.UniqueFileCount),
		strconv.FormatBool(e.ZeroRecordCount),
		strconv.FormatBool(e.EmptyFileIDInSheet),
		strconv.FormatBool(e.EmptyFileIDInQdrant),
		strconv.FormatBool(e.DuplicateIdentifierInSheet),
		string(e.FileIDsMatch),
		strings.Join(e.Issues, "; "),
	}
}
