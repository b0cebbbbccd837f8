package driven

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// Indexer turns a document into vector-store entries. Embedding and
// chunking live entirely behind this boundary; the core only asks for a
// document to become indexed.
type Indexer interface {
	// Index extracts, chunks, embeds and upserts the document content
	// into the vector store, stamping each payload with the record's
	// identifier and file ID.
	Index(ctx context.Context, rec domain.DocumentRecord, content []byte) error
}
