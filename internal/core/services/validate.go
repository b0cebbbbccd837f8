package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure ValidationService implements the interface.
var _ driving.Validator = (*ValidationService)(nil)

// ValidationService fetches the catalog sheet and runs the row validator.
type ValidationService struct {
	sheet driven.SheetStore
}

// NewValidationService creates a validation service over the sheet store.
func NewValidationService(sheet driven.SheetStore) *ValidationService {
	return &ValidationService{sheet: sheet}
}

// Validate fetches all rows and partitions them.
func (s *ValidationService) Validate(ctx context.Context) (*domain.ValidationResult, error) {
	rows, err := s.sheet.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheet: list rows: %w", err)
	}
	result := ValidateRows(rows)
	logger.Info("Validated %d rows: %d valid, %d invalid", len(rows), len(result.Valid), len(result.Invalid))
	return result, nil
}

// ValidateRows partitions raw sheet rows into valid records, invalid rows
// and a violation log. Pure: no side effects beyond the returned result.
//
// Rules, in check order per row:
//   - pdf_id, title and pdf_file_name must be non-blank
//   - pdf_id must parse as a UUID
//   - status must be one of the lifecycle values (blank means draft)
//   - no two rows may share a pdf_id; every copy of a duplicate is
//     rejected, since the engine never guesses which one is canonical
func ValidateRows(rows []domain.RawRow) *domain.ValidationResult {
	result := &domain.ValidationResult{}

	// Count identifier occurrences first so duplicates reject every copy.
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		id := fieldValue(row, domain.ColumnIdentifier)
		if id != "" {
			counts[strings.ToLower(id)]++
		}
	}

	for _, row := range rows {
		issues := checkRow(row, counts)
		if len(issues) > 0 {
			result.Invalid = append(result.Invalid, row)
			result.Log = append(result.Log, issues...)
			continue
		}
		result.Valid = append(result.Valid, recordFromRow(row))
	}
	return result
}

// checkRow returns every violation for one row.
func checkRow(row domain.RawRow, counts map[string]int) []domain.ValidationIssue {
	var issues []domain.ValidationIssue
	id := fieldValue(row, domain.ColumnIdentifier)

	fail := func(field, rule, value string) {
		issues = append(issues, domain.ValidationIssue{
			Row:        row.Row,
			Identifier: id,
			Field:      field,
			Rule:       rule,
			Value:      value,
		})
	}

	for _, field := range []string{domain.ColumnIdentifier, domain.ColumnTitle, domain.ColumnFileName} {
		if fieldValue(row, field) == "" {
			fail(field, domain.RuleRequired, row.Fields[field])
		}
	}

	if id != "" {
		if _, err := uuid.Parse(id); err != nil {
			fail(domain.ColumnIdentifier, domain.RuleIdentifierSyntax, id)
		}
		if counts[strings.ToLower(id)] > 1 {
			fail(domain.ColumnIdentifier, domain.RuleDuplicate, id)
		}
	}

	if status := fieldValue(row, domain.ColumnStatus); status != "" && !domain.Status(status).IsValid() {
		fail(domain.ColumnStatus, domain.RuleUnknownStatus, status)
	}

	return issues
}

// recordFromRow converts a validated raw row into a typed record.
func recordFromRow(row domain.RawRow) domain.DocumentRecord {
	status := domain.Status(fieldValue(row, domain.ColumnStatus))
	if status == "" {
		status = domain.StatusDraft
	}
	return domain.DocumentRecord{
		Identifier:      strings.ToLower(fieldValue(row, domain.ColumnIdentifier)),
		Title:           fieldValue(row, domain.ColumnTitle),
		FileName:        fieldValue(row, domain.ColumnFileName),
		FileID:          fieldValue(row, domain.ColumnFileID),
		Status:          status,
		StatusTimestamp: fieldValue(row, domain.ColumnStatusTimestamp),
		UpsertDate:      fieldValue(row, domain.ColumnUpsertDate),
		Row:             row.Row,
	}
}

// fieldValue returns the trimmed cell value for a column.
func fieldValue(row domain.RawRow, field string) string {
	return strings.TrimSpace(row.Fields[field])
}
