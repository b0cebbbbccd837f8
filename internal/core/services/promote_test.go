package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driving"
)

type promoteFixture struct {
	sheet   *memory.SheetStore
	files   *memory.FileStore
	vectors *memory.VectorStore
	indexer *memory.Indexer
	events  *memory.EventLog
	service *PromotionService
}

func newPromoteFixture() *promoteFixture {
	f := &promoteFixture{
		sheet:   memory.NewSheetStore(),
		files:   memory.NewFileStore(),
		vectors: memory.NewVectorStore(),
		events:  memory.NewEventLog(),
	}
	f.indexer = memory.NewIndexer(f.vectors)
	f.service = NewPromotionService(f.sheet, f.files, f.vectors, f.indexer, f.events)
	return f
}

func (f *promoteFixture) sheetStatus(t *testing.T, identifier string) string {
	t.Helper()
	rows, err := f.sheet.ListRows(context.Background())
	require.NoError(t, err)
	for _, row := range rows {
		if row.Fields[domain.ColumnIdentifier] == identifier {
			return row.Fields[domain.ColumnStatus]
		}
	}
	t.Fatalf("no row for %s", identifier)
	return ""
}

func TestPromote_NothingTagged(t *testing.T) {
	f := newPromoteFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "live"))

	results, err := f.service.Promote(context.Background())

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPromote_TaggedRowGoesLive(t *testing.T) {
	f := newPromoteFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "tagged_for_promotion"))
	f.files.Put("f1", "alpha.pdf", []byte("pdf bytes"), false)

	results, err := f.service.Promote(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, driving.OutcomeApplied, results[0].Outcome)
	assert.Equal(t, string(domain.StatusLive), f.sheetStatus(t, idAlpha))

	// The indexer wrote vector entries for the promoted document.
	vectors, err := f.vectors.ListByIdentifier(context.Background())
	require.NoError(t, err)
	agg, ok := vectors[idAlpha]
	require.True(t, ok)
	assert.Equal(t, []string{"f1"}, agg.FileIDs)

	// The file is live and an audit event was recorded.
	files, err := f.files.List(context.Background())
	require.NoError(t, err)
	assert.True(t, files["alpha"].Live)

	events, err := f.events.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionPromoted, events[0].Action)
}

func TestPromote_AlreadyIndexedSkipsIndexing(t *testing.T) {
	f := newPromoteFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "tagged_for_promotion"))
	f.files.Put("f1", "alpha.pdf", []byte("pdf"), false)
	f.vectors.Put(memory.Point{ID: "p1", Identifier: idAlpha, FileID: "f1", Page: 1})
	// Indexing would fail; an indexed row must never reach the indexer.
	f.indexer.Fail = errors.New("indexer must not run")

	results, err := f.service.Promote(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, driving.OutcomeApplied, results[0].Outcome)
	assert.Equal(t, string(domain.StatusLive), f.sheetStatus(t, idAlpha))
}

func TestPromote_MissingFileID(t *testing.T) {
	f := newPromoteFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "", "tagged_for_promotion"))

	results, err := f.service.Promote(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, driving.OutcomeFailed, results[0].Outcome)
	assert.Contains(t, results[0].Reason, "gcp_file_id")
	assert.Equal(t, "tagged_for_promotion", f.sheetStatus(t, idAlpha))
}

func TestPromote_FileMissingInDrive(t *testing.T) {
	f := newPromoteFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "tagged_for_promotion"))

	results, err := f.service.Promote(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, driving.OutcomeFailed, results[0].Outcome)
	assert.Contains(t, results[0].Reason, "not found in Drive")
	assert.Equal(t, "tagged_for_promotion", f.sheetStatus(t, idAlpha))
}

func TestPromote_IndexFailureLeavesSheetUntouched(t *testing.T) {
	f := newPromoteFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "tagged_for_promotion"))
	f.files.Put("f1", "alpha.pdf", []byte("pdf"), false)
	f.indexer.Fail = errors.New("embedding backend down")

	results, err := f.service.Promote(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, driving.OutcomeFailed, results[0].Outcome)
	assert.Equal(t, "tagged_for_promotion", f.sheetStatus(t, idAlpha))
}

func TestPromote_NilIndexerRejectsUnindexedRows(t *testing.T) {
	f := newPromoteFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "tagged_for_promotion"))
	f.files.Put("f1", "alpha.pdf", []byte("pdf"), false)
	service := NewPromotionService(f.sheet, f.files, f.vectors, nil, nil)

	results, err := service.Promote(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, driving.OutcomeFailed, results[0].Outcome)
	assert.Equal(t, domain.ErrIndexerUnavailable.Error(), results[0].Reason)
}

func TestPromote_OneFailureDoesNotBlockOthers(t *testing.T) {
	f := newPromoteFixture()
	f.sheet.Seed(
		sheetRow(idAlpha, "Alpha", "alpha.pdf", "", "tagged_for_promotion"),
		sheetRow(idBeta, "Beta", "beta.pdf", "f2", "tagged_for_promotion"),
	)
	f.files.Put("f2", "beta.pdf", []byte("pdf"), false)

	results, err := f.service.Promote(context.Background())

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, driving.OutcomeFailed, results[0].Outcome)
	assert.Equal(t, driving.OutcomeApplied, results[1].Outcome)
	assert.Equal(t, string(domain.StatusLive), f.sheetStatus(t, idBeta))
}

func TestPromote_Idempotent(t *testing.T) {
	f := newPromoteFixture()
	f.sheet.Seed(sheetRow(idAlpha, "Alpha", "alpha.pdf", "f1", "tagged_for_promotion"))
	f.files.Put("f1", "alpha.pdf", []byte("pdf"), false)

	first, err := f.service.Promote(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// The row is live now, so a second run finds nothing tagged.
	second, err := f.service.Promote(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second)
}
