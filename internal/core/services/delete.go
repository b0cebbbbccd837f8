package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure DeletionService implements the interface.
var _ driving.Deleter = (*DeletionService)(nil)

// DeletionService removes every trace of rows tagged for deletion: the
// Drive file, the Qdrant points, and finally the sheet row itself.
// Absence in any store is tolerated, so a re-run after a partial failure
// converges instead of erroring.
type DeletionService struct {
	sheet   driven.SheetStore
	files   driven.FileStore
	vectors driven.VectorStore
	events  driven.EventLog
}

// NewDeletionService creates a deletion driver. events may be nil to
// disable auditing.
func NewDeletionService(
	sheet driven.SheetStore,
	files driven.FileStore,
	vectors driven.VectorStore,
	events driven.EventLog,
) *DeletionService {
	return &DeletionService{sheet: sheet, files: files, vectors: vectors, events: events}
}

// Delete processes every row tagged for deletion and returns the audit of
// rows actually removed. A second run over the same tags finds nothing
// tagged and returns an empty result.
func (s *DeletionService) Delete(ctx context.Context) ([]driving.RowResult, error) {
	rows, err := s.sheet.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheet: list rows: %w", err)
	}
	validated := ValidateRows(rows)

	var tagged []domain.DocumentRecord
	for _, rec := range validated.Valid {
		if rec.Status == domain.StatusTaggedForDeletion {
			tagged = append(tagged, rec)
		}
	}
	if len(tagged) == 0 {
		logger.Info("No rows tagged for deletion")
		return nil, nil
	}

	results := make([]driving.RowResult, 0, len(tagged))
	for _, rec := range tagged {
		result := driving.RowResult{Identifier: rec.Identifier, FileName: rec.FileName}

		if err := s.deleteOne(ctx, rec); err != nil {
			result.Outcome = driving.OutcomeFailed
			result.Reason = err.Error()
			logger.Warn("Deletion failed for %s: %v", rec.Identifier, err)
		} else {
			result.Outcome = driving.OutcomeApplied
		}
		results = append(results, result)
	}
	return results, nil
}

// deleteOne removes one document from the three stores. The sheet row
// goes last so an aborted run leaves the tag in place for the next run.
func (s *DeletionService) deleteOne(ctx context.Context, rec domain.DocumentRecord) error {
	if rec.FileID != "" {
		err := s.files.Delete(ctx, rec.FileID)
		switch {
		case err == nil:
			s.audit(ctx, domain.ActionFileDeleted, rec, rec.FileID)
		case errors.Is(err, domain.ErrNotFound):
			// Already gone; fine.
		default:
			return fmt.Errorf("drive: delete %s: %w", rec.FileID, err)
		}
	}

	if err := s.vectors.DeleteByIdentifier(ctx, rec.Identifier); err != nil {
		return fmt.Errorf("qdrant: delete points: %w", err)
	}
	s.audit(ctx, domain.ActionPointsDeleted, rec, "")

	if err := s.sheet.DeleteRow(ctx, rec.Identifier); err != nil {
		return fmt.Errorf("sheet: delete row: %w", err)
	}
	s.audit(ctx, domain.ActionRowDeleted, rec, "")
	logger.Info("Deleted %s from all stores", rec.Identifier)
	return nil
}

// audit appends a lifecycle event, best effort.
func (s *DeletionService) audit(ctx context.Context, action string, rec domain.DocumentRecord, detail string) {
	if s.events == nil {
		return
	}
	event := &domain.Event{
		Action:     action,
		Identifier: rec.Identifier,
		FileName:   rec.FileName,
		Detail:     detail,
		At:         time.Now().UTC(),
	}
	if err := s.events.Append(ctx, event); err != nil {
		logger.Warn("Failed to record %s event for %s: %v", action, rec.Identifier, err)
	}
}
