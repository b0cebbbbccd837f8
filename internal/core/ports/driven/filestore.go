package driven

import "context"

// FileEntry is one file-store object as seen by a listing.
type FileEntry struct {
	// FileID is the store-assigned object ID (gcp_file_id).
	FileID string

	// Name is the stored object name, normally "<identifier>.pdf".
	Name string

	// Live reports whether the file sits in the live folder rather than
	// the tagging (draft) folder.
	Live bool
}

// FileStore holds the binary document payloads. Files are stored under
// their content-derived identifier so the listing can be joined with the
// sheet and the vector store without a shared key service.
type FileStore interface {
	// List returns every stored file keyed by identifier (the file name
	// stem), across both the tagging and live folders.
	List(ctx context.Context) (map[string]FileEntry, error)

	// Exists reports whether a file ID refers to a stored object.
	Exists(ctx context.Context, fileID string) (bool, error)

	// Upload stores content under name in the tagging folder and returns
	// the new file ID.
	Upload(ctx context.Context, name string, content []byte) (string, error)

	// Download returns the file content.
	// Returns domain.ErrNotFound when the file ID is unknown.
	Download(ctx context.Context, fileID string) ([]byte, error)

	// Finalize moves the file from the tagging folder to the live folder.
	// Finalizing a file already in the live folder is a no-op.
	Finalize(ctx context.Context, fileID string) error

	// Delete removes the file. Deleting an unknown file ID returns
	// domain.ErrNotFound; callers that tolerate absence check for it.
	Delete(ctx context.Context, fileID string) error
}
