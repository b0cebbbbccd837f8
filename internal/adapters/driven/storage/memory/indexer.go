package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure Indexer implements the interface.
var _ driven.Indexer = (*Indexer)(nil)

// Indexer is a fake embedding collaborator: it writes one point per
// document into the in-memory vector store. Used by tests and dry runs
// to stand in for the real chunk/embed/upsert pipeline.
type Indexer struct {
	mu      sync.Mutex
	vectors *VectorStore
	nextID  int

	// Fail, when set, makes Index return this error. Test hook.
	Fail error
}

// NewIndexer creates an indexer writing into vectors.
func NewIndexer(vectors *VectorStore) *Indexer {
	return &Indexer{vectors: vectors}
}

// Index records a single point carrying the document's identifier and
// file ID.
func (i *Indexer) Index(_ context.Context, rec domain.DocumentRecord, _ []byte) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.Fail != nil {
		return i.Fail
	}
	i.nextID++
	i.vectors.Put(Point{
		ID:         fmt.Sprintf("indexed-%d", i.nextID),
		Identifier: rec.Identifier,
		FileID:     rec.FileID,
		Page:       1,
	})
	return nil
}
