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

// Ensure PromotionService implements the interface.
var _ driving.Promoter = (*PromotionService)(nil)

// PromotionService publishes rows tagged for promotion. Per row the write
// order is fixed: vector entries first, file finalized second, sheet
// status last. The sheet is only advanced once every other store has the
// document, so an aborted run never leaves a row falsely live.
type PromotionService struct {
	sheet   driven.SheetStore
	files   driven.FileStore
	vectors driven.VectorStore
	indexer driven.Indexer // optional; nil disables indexing of new rows
	events  driven.EventLog
}

// NewPromotionService creates a promotion driver. indexer may be nil, in
// which case rows without existing vector entries fail with a reason
// instead of being indexed. events may be nil to disable auditing.
func NewPromotionService(
	sheet driven.SheetStore,
	files driven.FileStore,
	vectors driven.VectorStore,
	indexer driven.Indexer,
	events driven.EventLog,
) *PromotionService {
	return &PromotionService{
		sheet:   sheet,
		files:   files,
		vectors: vectors,
		indexer: indexer,
		events:  events,
	}
}

// Promote processes every validated row tagged for promotion. A failure
// on one row is recorded in its result and never blocks the rest; only a
// store listing failure aborts the run.
func (s *PromotionService) Promote(ctx context.Context) ([]driving.RowResult, error) {
	rows, err := s.sheet.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheet: list rows: %w", err)
	}
	validated := ValidateRows(rows)

	var tagged []domain.DocumentRecord
	for _, rec := range validated.Valid {
		if rec.Status == domain.StatusTaggedForPromotion {
			tagged = append(tagged, rec)
		}
	}
	if len(tagged) == 0 {
		logger.Info("No rows tagged for promotion")
		return nil, nil
	}

	// One exhaustive listing up front; per-row existence checks read it.
	vectors, err := s.vectors.ListByIdentifier(ctx)
	if err != nil {
		return nil, fmt.Errorf("qdrant: list points: %w", err)
	}

	results := make([]driving.RowResult, 0, len(tagged))
	for _, rec := range tagged {
		result := driving.RowResult{Identifier: rec.Identifier, FileName: rec.FileName}

		_, indexed := vectors[rec.Identifier]
		if err := s.promoteOne(ctx, rec, indexed); err != nil {
			result.Outcome = driving.OutcomeFailed
			result.Reason = err.Error()
			logger.Warn("Promotion failed for %s: %v", rec.Identifier, err)
		} else {
			result.Outcome = driving.OutcomeApplied
			s.audit(ctx, domain.ActionPromoted, rec, "")
		}
		results = append(results, result)
	}
	return results, nil
}

// promoteOne applies the three-store transition for a single row.
func (s *PromotionService) promoteOne(ctx context.Context, rec domain.DocumentRecord, indexed bool) error {
	if rec.FileID == "" {
		return errors.New("missing gcp_file_id")
	}
	exists, err := s.files.Exists(ctx, rec.FileID)
	if err != nil {
		return fmt.Errorf("drive: check file %s: %w", rec.FileID, err)
	}
	if !exists {
		return fmt.Errorf("file %s not found in Drive", rec.FileID)
	}

	// Ensure vector entries exist. Already-indexed rows skip straight to
	// finalization so a re-run converges instead of rejecting.
	if !indexed {
		if s.indexer == nil {
			return domain.ErrIndexerUnavailable
		}
		content, err := s.files.Download(ctx, rec.FileID)
		if err != nil {
			return fmt.Errorf("drive: download %s: %w", rec.FileID, err)
		}
		if err := s.indexer.Index(ctx, rec, content); err != nil {
			return fmt.Errorf("index: %w", err)
		}
	}

	if err := s.files.Finalize(ctx, rec.FileID); err != nil {
		return fmt.Errorf("drive: finalize %s: %w", rec.FileID, err)
	}

	// Sheet last: status only advances after the other stores succeeded.
	now := time.Now().UTC().Format(time.RFC3339)
	fields := map[string]string{
		domain.ColumnStatus:          string(domain.StatusLive),
		domain.ColumnStatusTimestamp: now,
		domain.ColumnUpsertDate:      now,
	}
	if err := s.sheet.UpdateRow(ctx, rec.Identifier, fields); err != nil {
		return fmt.Errorf("sheet: update row: %w", err)
	}
	logger.Info("Promoted %s to live", rec.Identifier)
	return nil
}

// audit appends a lifecycle event, best effort.
func (s *PromotionService) audit(ctx context.Context, action string, rec domain.DocumentRecord, detail string) {
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
