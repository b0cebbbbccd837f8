package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure ProposalService implements the interface.
var _ driving.Proposer = (*ProposalService)(nil)

// ProposalService catalogues new documents from a local inbox directory.
// For each PDF it derives the content identifier, uploads the bytes to
// the tagging folder under "<identifier>.pdf" and appends a draft row.
// Documents whose identifier is already catalogued are skipped, so
// re-running over the same inbox is harmless.
type ProposalService struct {
	sheet  driven.SheetStore
	files  driven.FileStore
	events driven.EventLog
}

// NewProposalService creates a proposal driver. events may be nil to
// disable auditing.
func NewProposalService(sheet driven.SheetStore, files driven.FileStore, events driven.EventLog) *ProposalService {
	return &ProposalService{sheet: sheet, files: files, events: events}
}

// Propose scans dir for PDFs and catalogues the new ones.
func (s *ProposalService) Propose(ctx context.Context, dir string) ([]driving.RowResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read inbox %s: %w", dir, err)
	}

	rows, err := s.sheet.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheet: list rows: %w", err)
	}
	known := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if id := strings.ToLower(strings.TrimSpace(row.Fields[domain.ColumnIdentifier])); id != "" {
			known[id] = struct{}{}
		}
	}

	var results []driving.RowResult
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		result := driving.RowResult{FileName: entry.Name()}

		id, outcome, reason := s.proposeOne(ctx, dir, entry.Name(), known)
		result.Identifier = id
		result.Outcome = outcome
		result.Reason = reason
		if outcome == driving.OutcomeApplied {
			known[id] = struct{}{}
		}
		results = append(results, result)
	}
	return results, nil
}

// proposeOne catalogues a single inbox file.
func (s *ProposalService) proposeOne(
	ctx context.Context, dir, name string, known map[string]struct{},
) (string, driving.Outcome, string) {
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", driving.OutcomeFailed, fmt.Sprintf("read file: %v", err)
	}

	id, err := DeriveDocumentID(bytes.NewReader(content))
	if err != nil {
		return "", driving.OutcomeFailed, fmt.Sprintf("derive identifier: %v", err)
	}

	if _, dup := known[id]; dup {
		logger.Info("Skipping %s: identifier %s already catalogued", name, id)
		return id, driving.OutcomeSkipped, "identifier already catalogued"
	}

	fileID, err := s.files.Upload(ctx, id+".pdf", content)
	if err != nil {
		return id, driving.OutcomeFailed, fmt.Sprintf("upload: %v", err)
	}

	// Sheet last, matching the lifecycle drivers: the row only appears
	// once the file is safely stored.
	fields := map[string]string{
		domain.ColumnIdentifier: id,
		domain.ColumnTitle:      strings.TrimSuffix(name, filepath.Ext(name)),
		domain.ColumnFileName:   name,
		domain.ColumnFileID:     fileID,
		domain.ColumnStatus:     string(domain.StatusDraft),
	}
	if err := s.sheet.AppendRow(ctx, fields); err != nil {
		return id, driving.OutcomeFailed, fmt.Sprintf("append row: %v", err)
	}

	if s.events != nil {
		event := &domain.Event{
			Action:     domain.ActionProposed,
			Identifier: id,
			FileName:   name,
			Detail:     fileID,
			At:         time.Now().UTC(),
		}
		if err := s.events.Append(ctx, event); err != nil {
			logger.Warn("Failed to record proposal event for %s: %v", id, err)
		}
	}
	logger.Info("Proposed %s as %s", name, id)
	return id, driving.OutcomeApplied, ""
}
