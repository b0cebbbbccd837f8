package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure RepairService implements the interface.
var _ driving.Repairer = (*RepairService)(nil)

// RepairService re-syncs the gcp_file_id denormalised into Qdrant
// payloads from the authoritative sheet value. Only mismatched points are
// written; correct points are left untouched, so a repeated run reaches a
// fixed point with zero patches.
type RepairService struct {
	sheet   driven.SheetStore
	vectors driven.VectorStore
	events  driven.EventLog
}

// NewRepairService creates a repair driver. events may be nil to disable
// auditing.
func NewRepairService(sheet driven.SheetStore, vectors driven.VectorStore, events driven.EventLog) *RepairService {
	return &RepairService{sheet: sheet, vectors: vectors, events: events}
}

// Repair patches every vector payload whose file ID diverges from the
// sheet for live rows, and returns the patch list.
func (s *RepairService) Repair(ctx context.Context) ([]driving.Patch, error) {
	rows, err := s.sheet.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheet: list rows: %w", err)
	}
	validated := ValidateRows(rows)

	vectors, err := s.vectors.ListByIdentifier(ctx)
	if err != nil {
		return nil, fmt.Errorf("qdrant: list points: %w", err)
	}

	var patches []driving.Patch
	for _, rec := range validated.Valid {
		if rec.Status != domain.StatusLive || rec.FileID == "" {
			continue
		}
		agg, ok := vectors[rec.Identifier]
		if !ok {
			continue
		}
		for _, point := range agg.Points {
			if point.FileID == rec.FileID {
				continue
			}
			if err := s.vectors.SetPayloadFileID(ctx, point.ID, rec.FileID); err != nil {
				return patches, fmt.Errorf("qdrant: patch point %s: %w", point.ID, err)
			}
			patches = append(patches, driving.Patch{
				Identifier: rec.Identifier,
				PointID:    point.ID,
				OldFileID:  point.FileID,
				NewFileID:  rec.FileID,
			})
			s.audit(ctx, rec, fmt.Sprintf("%s -> %s", point.FileID, rec.FileID))
		}
	}

	logger.Info("Repaired %d vector payloads", len(patches))
	return patches, nil
}

// audit appends a repair event, best effort.
func (s *RepairService) audit(ctx context.Context, rec domain.DocumentRecord, detail string) {
	if s.events == nil {
		return
	}
	event := &domain.Event{
		Action:     domain.ActionPayloadFixed,
		Identifier: rec.Identifier,
		FileName:   rec.FileName,
		Detail:     detail,
		At:         time.Now().UTC(),
	}
	if err := s.events.Append(ctx, event); err != nil {
		logger.Warn("Failed to record repair event for %s: %v", rec.Identifier, err)
	}
}
