// Package drive implements the binary file store driven port on the
// Google Drive API, with a tagging folder for proposed documents and a
// live folder for published ones.
package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	drive "google.golang.org/api/drive/v3"

	"github.com/custodia-labs/librarian-cli/internal/adapters/driven/google"
	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.FileStore = (*FileStore)(nil)

const pdfMimeType = "application/pdf"

// FileStore stores documents in two Drive folders: taggingFolderID for
// proposed files and liveFolderID for published ones. Files are named
// "<identifier>.pdf", so the listing joins against the other stores by
// file name stem.
type FileStore struct {
	svc             *drive.Service
	limiter         *google.RateLimiter
	taggingFolderID string
	liveFolderID    string
}

// NewFileStore creates a file store over the two Drive folders. A nil
// limiter falls back to the Drive service defaults.
func NewFileStore(svc *drive.Service, limiter *google.RateLimiter, taggingFolderID, liveFolderID string) *FileStore {
	if limiter == nil {
		limiter = google.NewRateLimiter(google.ServiceDrive)
	}
	return &FileStore{
		svc:             svc,
		limiter:         limiter,
		taggingFolderID: taggingFolderID,
		liveFolderID:    liveFolderID,
	}
}

// List returns every file in both folders, keyed by the lowercased file
// name stem. Listing is paginated to exhaustion before returning.
func (s *FileStore) List(ctx context.Context) (map[string]driven.FileEntry, error) {
	out := make(map[string]driven.FileEntry)

	// Tagging first so a file present in both folders reports as live.
	if err := s.listFolder(ctx, s.taggingFolderID, false, out); err != nil {
		return nil, err
	}
	if err := s.listFolder(ctx, s.liveFolderID, true, out); err != nil {
		return nil, err
	}
	return out, nil
}

// listFolder pages through one folder and merges entries into out.
func (s *FileStore) listFolder(ctx context.Context, folderID string, live bool, out map[string]driven.FileEntry) error {
	pageToken := ""
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		call := s.svc.Files.List().
			Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
			Fields("nextPageToken, files(id, name)").
			PageSize(1000).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return fmt.Errorf("listing folder %s: %w", folderID, google.MapError(err))
		}

		for _, f := range resp.Files {
			key := identifierFromName(f.Name)
			out[key] = driven.FileEntry{FileID: f.Id, Name: f.Name, Live: live}
		}

		if resp.NextPageToken == "" {
			return nil
		}
		pageToken = resp.NextPageToken
	}
}

// Exists reports whether a file ID refers to a stored, untrashed object.
func (s *FileStore) Exists(ctx context.Context, fileID string) (bool, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return false, err
	}
	f, err := s.svc.Files.Get(fileID).Fields("id, trashed").Context(ctx).Do()
	if err != nil {
		mapped := google.MapError(err)
		if errors.Is(mapped, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking file %s: %w", fileID, mapped)
	}
	return !f.Trashed, nil
}

// Upload stores content under name in the tagging folder.
func (s *FileStore) Upload(ctx context.Context, name string, content []byte) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	f, err := s.svc.Files.Create(&drive.File{
		Name:     name,
		Parents:  []string{s.taggingFolderID},
		MimeType: pdfMimeType,
	}).Media(bytes.NewReader(content)).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, google.MapError(err))
	}
	return f.Id, nil
}

// Download returns the file content.
func (s *FileStore) Download(ctx context.Context, fileID string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", fileID, google.MapError(err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileID, err)
	}
	return data, nil
}

// Finalize moves the file from the tagging folder to the live folder.
// A file already in the live folder is left alone.
func (s *FileStore) Finalize(ctx context.Context, fileID string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	f, err := s.svc.Files.Get(fileID).Fields("id, parents").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading parents of %s: %w", fileID, google.MapError(err))
	}

	inLive := false
	var removeParents []string
	for _, p := range f.Parents {
		if p == s.liveFolderID {
			inLive = true
		} else {
			removeParents = append(removeParents, p)
		}
	}
	if inLive && len(removeParents) == 0 {
		return nil
	}

	call := s.svc.Files.Update(fileID, nil).Context(ctx)
	if !inLive {
		call = call.AddParents(s.liveFolderID)
	}
	if len(removeParents) > 0 {
		call = call.RemoveParents(strings.Join(removeParents, ","))
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := call.Do(); err != nil {
		return fmt.Errorf("moving %s to live folder: %w", fileID, google.MapError(err))
	}
	return nil
}

// Delete removes the file.
func (s *FileStore) Delete(ctx context.Context, fileID string) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	if err := s.svc.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		mapped := google.MapError(err)
		if errors.Is(mapped, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("deleting %s: %w", fileID, mapped)
	}
	return nil
}

// identifierFromName derives the join key from a stored file name:
// the lowercased name with its extension stripped.
func identifierFromName(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))
}
