package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
	"github.com/custodia-labs/librarian-cli/internal/logger"
)

// Ensure ReconcilerService implements the interface.
var _ driving.Reconciler = (*ReconcilerService)(nil)

// ReconcilerService joins the three store listings by identifier and
// computes one status entry per identifier seen anywhere.
type ReconcilerService struct {
	sheet   driven.SheetStore
	files   driven.FileStore
	vectors driven.VectorStore
	reports driven.ReportStore // optional; nil disables persistence
}

// NewReconcilerService creates a reconciler over the three stores.
// reports may be nil, in which case runs are not persisted.
func NewReconcilerService(
	sheet driven.SheetStore,
	files driven.FileStore,
	vectors driven.VectorStore,
	reports driven.ReportStore,
) *ReconcilerService {
	return &ReconcilerService{
		sheet:   sheet,
		files:   files,
		vectors: vectors,
		reports: reports,
	}
}

// sheetView is the per-identifier projection of the validated sheet rows.
type sheetView struct {
	rec  domain.DocumentRecord
	rows int // rows sharing this identifier
}

// Run executes one reconciliation. Every listing is fetched to exhaustion
// before any entry is computed; a store failure aborts the run with store
// and operation context, while per-identifier drift only lands in issues.
func (s *ReconcilerService) Run(ctx context.Context) (*domain.ReconciliationRun, error) {
	run := &domain.ReconciliationRun{StartedAt: time.Now().UTC()}

	rows, err := s.sheet.ListRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheet: list rows: %w", err)
	}
	sheet := s.sheetByIdentifier(rows)

	files, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("drive: list files: %w", err)
	}

	vectors, err := s.vectors.ListByIdentifier(ctx)
	if err != nil {
		return nil, fmt.Errorf("qdrant: list points: %w", err)
	}

	// Outer join: one entry per identifier present in any source.
	ids := make(map[string]struct{}, len(sheet))
	for id := range sheet {
		ids[id] = struct{}{}
	}
	for id := range files {
		ids[id] = struct{}{}
	}
	for id := range vectors {
		ids[id] = struct{}{}
	}

	for id := range ids {
		view, inSheet := sheet[id]
		_, inDrive := files[id]
		agg, inQdrant := vectors[id]
		run.Entries = append(run.Entries, buildEntry(id, view, inSheet, inDrive, agg, inQdrant))
	}
	sort.Slice(run.Entries, func(i, j int) bool {
		return run.Entries[i].Identifier < run.Entries[j].Identifier
	})

	run.CompletedAt = time.Now().UTC()
	logger.Info("Reconciled %d identifiers, %d with issues", len(run.Entries), len(run.Issues()))

	if s.reports != nil {
		if err := s.reports.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("report store: save run: %w", err)
		}
	}
	return run, nil
}

// sheetByIdentifier validates the raw rows and projects them by
// identifier. Rows rejected only for identifier duplication still join
// the reconciliation: the duplication itself is the anomaly, and the
// reconciler never guesses which copy is canonical.
func (s *ReconcilerService) sheetByIdentifier(rows []domain.RawRow) map[string]sheetView {
	result := ValidateRows(rows)

	records := result.Valid
	for _, raw := range result.Invalid {
		if onlyDuplicateViolations(result.Log, raw.Row) {
			records = append(records, recordFromRow(raw))
		}
	}

	// Duplication counts over the raw rows, not the admitted records: a
	// copy rejected for an unrelated rule still makes its identifier a
	// sheet duplicate.
	counts := make(map[string]int, len(rows))
	for _, raw := range rows {
		if id := fieldValue(raw, domain.ColumnIdentifier); id != "" {
			counts[strings.ToLower(id)]++
		}
	}

	views := make(map[string]sheetView, len(records))
	for _, rec := range records {
		if _, seen := views[rec.Identifier]; seen {
			continue
		}
		views[rec.Identifier] = sheetView{rec: rec, rows: counts[rec.Identifier]}
	}
	return views
}

// onlyDuplicateViolations reports whether every violation logged for a
// row is the duplicate-identifier rule.
func onlyDuplicateViolations(log []domain.ValidationIssue, row int) bool {
	found := false
	for _, issue := range log {
		if issue.Row != row {
			continue
		}
		if issue.Rule != domain.RuleDuplicate {
			return false
		}
		found = true
	}
	return found
}

// buildEntry computes one immutable status entry from the per-store
// partial records.
func buildEntry(
	id string,
	view sheetView,
	inSheet, inDrive bool,
	agg driven.VectorAggregate,
	inQdrant bool,
) domain.StatusEntry {
	entry := domain.StatusEntry{
		Identifier: id,
		InSheet:    inSheet,
		InDrive:    inDrive,
		InQdrant:   inQdrant,
	}

	if inSheet {
		entry.Title = view.rec.Title
		entry.FileName = view.rec.FileName
		entry.SheetFileID = view.rec.FileID
		entry.EmptyFileIDInSheet = view.rec.FileID == ""
		entry.DuplicateIdentifierInSheet = view.rows > 1
	}

	if inQdrant {
		entry.RecordCount = agg.RecordCount
		entry.PageCount = agg.PageCount
		entry.QdrantFileIDs = agg.FileIDs
		entry.UniqueFileCount = len(agg.FileIDs)
		entry.ZeroRecordCount = agg.RecordCount == 0
		entry.EmptyFileIDInQdrant = len(agg.FileIDs) == 0
	}

	entry.FileIDsMatch = matchFileIDs(&entry)
	entry.Issues = collectIssues(&entry)
	return entry
}

// matchFileIDs compares the sheet's file ID against the Qdrant payloads.
// Yes requires the sheet's ID to equal every payload ID; any divergence
// is No, including a blank sheet cell against recorded payload IDs (a
// blank cell is a claim of no file, not missing data). Unknown is
// reserved for entries where one side has nothing to compare.
func matchFileIDs(e *domain.StatusEntry) domain.Match {
	if !e.InSheet || !e.InQdrant || len(e.QdrantFileIDs) == 0 {
		return domain.MatchUnknown
	}
	if len(e.QdrantFileIDs) == 1 && e.QdrantFileIDs[0] == e.SheetFileID {
		return domain.MatchYes
	}
	return domain.MatchNo
}

// collectIssues assembles the ordered anomaly tag list. Tag order is
// stable so reports diff cleanly between runs.
func collectIssues(e *domain.StatusEntry) []string {
	var issues []string
	if e.DuplicateIdentifierInSheet {
		issues = append(issues, domain.IssueDuplicateIdentifier)
	}
	if e.InSheet && e.EmptyFileIDInSheet {
		issues = append(issues, domain.IssueEmptyFileIDInSheet)
	}
	if e.EmptyFileIDInQdrant {
		issues = append(issues, domain.IssueEmptyFileIDInQdrant)
	}
	if e.ZeroRecordCount {
		issues = append(issues, domain.IssueZeroRecords)
	}
	if !e.InSheet {
		issues = append(issues, domain.IssueMissingInSheet)
	}
	if !e.InDrive {
		issues = append(issues, domain.IssueMissingInDrive)
	}
	if !e.InQdrant {
		issues = append(issues, domain.IssueMissingInQdrant)
	}
	if e.FileIDsMatch == domain.MatchNo {
		issues = append(issues, domain.IssueFileIDMismatch)
	}
	return issues
}
