package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the catalog sheet",
	Long: `Checks every row of the catalog sheet against the validation rules:
required fields, identifier syntax, duplicate identifiers and known
lifecycle statuses. Exits non-zero when any row is invalid.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if validatorService == nil {
		return errors.New("validator service not configured")
	}

	result, err := validatorService.Validate(context.Background())
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	cmd.Printf("Validated %d rows: %d valid, %d invalid\n",
		len(result.Valid)+len(result.Invalid), len(result.Valid), len(result.Invalid))

	if len(result.Log) == 0 {
		return nil
	}
	cmd.Println()
	for _, issue := range result.Log {
		cmd.Printf("  row %d: %s (%s", issue.Row, issue.Rule, issue.Field)
		if issue.Value != "" {
			cmd.Printf("=%q", issue.Value)
		}
		cmd.Println(")")
	}
	return fmt.Errorf("%d rows failed validation", len(result.Invalid))
}
