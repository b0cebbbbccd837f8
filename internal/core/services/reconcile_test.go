package services

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

type reconcileFixture struct {
	sheet   *memory.SheetStore
	files   *memory.FileStore
	vectors *memory.VectorStore
	reports *memory.ReportStore
	service *ReconcilerService
}

func newReconcileFixture() *reconcileFixture {
	f := &reconcileFixture{
		sheet:   memory.NewSheetStore(),
		files:   memory.NewFileStore(),
		vectors: memory.NewVectorStore(),
		reports: memory.NewReportStore(),
	}
	f.service = NewReconcilerService(f.sheet, f.files, f.vectors, f.reports)
	return f
}

func (f *reconcileFixture) run(t *testing.T) *domain.ReconciliationRun {
	t.Helper()
	run, err := f.service.Run(context.Background())
	require.NoError(t, err)
	return run
}

func entryFor(t *testing.T, run *domain.ReconciliationRun, id string) domain.StatusEntry {
	t.Helper()
	for _, e := range run.Entries {
		if e.Identifier == id {
			return e
		}
	}
	t.Fatalf("no entry for %s", id)
	return domain.StatusEntry{}
}

func TestReconciler_EmptyStores(t *testing.T) {
	f := newReconcileFixture()

	run := f.run(t)

	assert.Empty(t, run.Entries)
	assert.False(t, run.CompletedAt.Before(run.StartedAt))
}

func TestReconciler_ConsistentIdentifier(t *testing.T) {
	f := newReconcileFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", idAlpha+".pdf", "f1", "live"))
	f.files.Put("f1", idAlpha+".pdf", []byte("pdf"), true)
	f.vectors.Put(
		memory.Point{ID: "p1", Identifier: idAlpha, FileID: "f1", Page: 1},
		memory.Point{ID: "p2", Identifier: idAlpha, FileID: "f1", Page: 2},
	)

	run := f.run(t)

	require.Len(t, run.Entries, 1)
	entry := run.Entries[0]
	assert.True(t, entry.InSheet)
	assert.True(t, entry.InDrive)
	assert.True(t, entry.InQdrant)
	assert.Equal(t, 2, entry.RecordCount)
	assert.Equal(t, 2, entry.PageCount)
	assert.Equal(t, []string{"f1"}, entry.QdrantFileIDs)
	assert.Equal(t, domain.MatchYes, entry.FileIDsMatch)
	assert.Empty(t, entry.Issues)
	assert.True(t, entry.Consistent())
	assert.Empty(t, run.Issues())
}

func TestReconciler_SheetOnlyIdentifier(t *testing.T) {
	f := newReconcileFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "draft"))

	run := f.run(t)

	entry := entryFor(t, run, idAlpha)
	assert.True(t, entry.InSheet)
	assert.False(t, entry.InDrive)
	assert.False(t, entry.InQdrant)
	assert.Equal(t, domain.MatchUnknown, entry.FileIDsMatch)
	assert.Equal(t, []string{domain.IssueMissingInDrive, domain.IssueMissingInQdrant}, entry.Issues)
}

func TestReconciler_BlankSheetFileIDAgainstQdrantPayloads(t *testing.T) {
	f := newReconcileFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "", "live"))
	f.vectors.Put(
		memory.Point{ID: "p1", Identifier: idAlpha, FileID: "F1", Page: 1},
		memory.Point{ID: "p2", Identifier: idAlpha, FileID: "F1", Page: 2},
		memory.Point{ID: "p3", Identifier: idAlpha, FileID: "F1", Page: 3},
	)

	run := f.run(t)

	entry := entryFor(t, run, idAlpha)
	assert.True(t, entry.InSheet)
	assert.False(t, entry.InDrive)
	assert.True(t, entry.InQdrant)
	assert.True(t, entry.EmptyFileIDInSheet)
	assert.Equal(t, 3, entry.RecordCount)
	assert.Equal(t, domain.MatchNo, entry.FileIDsMatch)
	assert.Contains(t, entry.Issues, domain.IssueEmptyFileIDInSheet)
	assert.Contains(t, entry.Issues, domain.IssueFileIDMismatch)
	assert.Contains(t, entry.Issues, domain.IssueMissingInDrive)
}

func TestReconciler_DuplicateIdentifierStillReconciled(t *testing.T) {
	f := newReconcileFixture()
	f.sheet.Seed(
		sheetRow(idBeta, "First copy", "beta.pdf", "f1", "live"),
		sheetRow(idBeta, "Second copy", "beta-again.pdf", "f2", "live"),
	)

	run := f.run(t)

	entry := entryFor(t, run, idBeta)
	assert.True(t, entry.InSheet)
	assert.True(t, entry.DuplicateIdentifierInSheet)
	assert.Contains(t, entry.Issues, domain.IssueDuplicateIdentifier)
}

func TestReconciler_DriveOrphan(t *testing.T) {
	f := newReconcileFixture()
	f.files.Put("f9", idGamma+".pdf", []byte("pdf"), false)

	run := f.run(t)

	entry := entryFor(t, run, idGamma)
	assert.False(t, entry.InSheet)
	assert.True(t, entry.InDrive)
	assert.False(t, entry.InQdrant)
	assert.Equal(t, []string{domain.IssueMissingInSheet, domain.IssueMissingInQdrant}, entry.Issues)
}

func TestReconciler_FileIDMismatch(t *testing.T) {
	f := newReconcileFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", idAlpha+".pdf", "f1", "live"))
	f.files.Put("f1", idAlpha+".pdf", []byte("pdf"), true)
	f.vectors.Put(
		memory.Point{ID: "p1", Identifier: idAlpha, FileID: "f1", Page: 1},
		memory.Point{ID: "p2", Identifier: idAlpha, FileID: "f2", Page: 2},
	)

	run := f.run(t)

	entry := entryFor(t, run, idAlpha)
	assert.Equal(t, []string{"f1", "f2"}, entry.QdrantFileIDs)
	assert.Equal(t, 2, entry.UniqueFileCount)
	assert.Equal(t, domain.MatchNo, entry.FileIDsMatch)
	assert.Equal(t, []string{domain.IssueFileIDMismatch}, entry.Issues)
}

func TestReconciler_EmptyFileIDInQdrant(t *testing.T) {
	f := newReconcileFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", idAlpha+".pdf", "f1", "live"))
	f.files.Put("f1", idAlpha+".pdf", []byte("pdf"), true)
	f.vectors.Put(memory.Point{ID: "p1", Identifier: idAlpha, FileID: "", Page: 1})

	run := f.run(t)

	entry := entryFor(t, run, idAlpha)
	assert.True(t, entry.EmptyFileIDInQdrant)
	assert.Equal(t, domain.MatchUnknown, entry.FileIDsMatch)
	assert.Equal(t, []string{domain.IssueEmptyFileIDInQdrant}, entry.Issues)
}

func TestReconciler_EntriesSortedByIdentifier(t *testing.T) {
	f := newReconcileFixture()
	f.sheet.Seed(
		sheetRow(idBeta, "Beta", "beta.pdf", "f2", "draft"),
		sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "draft"),
	)

	run := f.run(t)

	require.Len(t, run.Entries, 2)
	assert.True(t, sort.SliceIsSorted(run.Entries, func(i, j int) bool {
		return run.Entries[i].Identifier < run.Entries[j].Identifier
	}))
}

func TestReconciler_PersistsRun(t *testing.T) {
	f := newReconcileFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "draft"))

	run := f.run(t)

	require.NotZero(t, run.ID)
	saved, err := f.reports.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Len(t, saved.Entries, 1)
}

func TestReconciler_NilReportStore(t *testing.T) {
	f := newReconcileFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "draft"))
	service := NewReconcilerService(f.sheet, f.files, f.vectors, nil)

	run, err := service.Run(context.Background())

	require.NoError(t, err)
	assert.Zero(t, run.ID)
	assert.Len(t, run.Entries, 1)
}

func TestReconciler_DuplicateWithUnrelatedViolation(t *testing.T) {
	f := newReconcileFixture()
	f.sheet.Seed(
		sheetRow(idAlpha, "Alpha", idAlpha+".pdf", "f1", "live"),
		sheetRow(idAlpha, "", idAlpha+".pdf", "f2", "live"),
	)

	run := f.run(t)

	entry := entryFor(t, run, idAlpha)
	assert.True(t, entry.DuplicateIdentifierInSheet)
	assert.Contains(t, entry.Issues, domain.IssueDuplicateIdentifier)
	assert.Equal(t, "Alpha", entry.Title, "the copy without unrelated violations carries the metadata")
}
