package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Re-sync Qdrant payload file IDs from the sheet",
	Long: `Patches every Qdrant point whose payload file ID diverges from the
sheet's gcp_file_id for live rows. The sheet value is authoritative.
Only mismatched points are written, so repeated runs converge to zero
patches.`,
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, _ []string) error {
	if repairerService == nil {
		return errors.New("repairer service not configured")
	}

	patches, err := repairerService.Repair(context.Background())
	if err != nil {
		return fmt.Errorf("repair failed: %w", err)
	}
	if len(patches) == 0 {
		cmd.Println("All payloads are in sync.")
		return nil
	}

	cmd.Printf("Patched %d points:\n", len(patches))
	for _, p := range patches {
		cmd.Printf("  %s point %s: %q -> %q\n", p.Identifier, p.PointID, p.OldFileID, p.NewFileID)
	}
	return nil
}
