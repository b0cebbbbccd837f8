package driven

import "context"

// PointRef is one vector point as seen by a listing: the point ID plus
// the file ID its payload references (empty when the payload has none).
type PointRef struct {
	ID     string
	FileID string
}

// VectorAggregate summarises every vector point sharing one identifier.
type VectorAggregate struct {
	// RecordCount is the number of points.
	RecordCount int

	// PageCount is the highest page number referenced by any payload.
	PageCount int

	// FileIDs lists the distinct non-empty file IDs across payloads, sorted.
	FileIDs []string

	// Points lists every point with its payload file ID. Needed by the
	// repair driver to patch only mismatched points.
	Points []PointRef
}

// VectorStore is the searchable representation of the library. Payloads
// denormalise the sheet's gcp_file_id; the sheet copy is authoritative.
type VectorStore interface {
	// ListByIdentifier aggregates every point in the collection by the
	// identifier recorded in its payload. The listing paginates to
	// exhaustion before returning; no partial listing is ever returned.
	ListByIdentifier(ctx context.Context) (map[string]VectorAggregate, error)

	// SetPayloadFileID overwrites the file ID recorded in one point's
	// payload.
	SetPayloadFileID(ctx context.Context, pointID, fileID string) error

	// DeleteByIdentifier removes every point whose payload matches the
	// identifier. Deleting an identifier with no points is not an error.
	DeleteByIdentifier(ctx context.Context, identifier string) error
}
