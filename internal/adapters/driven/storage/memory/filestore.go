package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure FileStore implements the interface.
var _ driven.FileStore = (*FileStore)(nil)

type storedFile struct {
	name    string
	content []byte
	live    bool
}

// FileStore is an in-memory implementation of driven.FileStore.
type FileStore struct {
	mu     sync.RWMutex
	files  map[string]storedFile // keyed by file ID
	nextID int
}

// NewFileStore creates an empty in-memory file store.
func NewFileStore() *FileStore {
	return &FileStore{files: make(map[string]storedFile)}
}

// Put stores a file directly with a chosen ID. Test helper.
func (s *FileStore) Put(fileID, name string, content []byte, live bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[fileID] = storedFile{name: name, content: content, live: live}
}

// List returns every stored file keyed by the identifier derived from
// the file name stem.
func (s *FileStore) List(_ context.Context) (map[string]driven.FileEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]driven.FileEntry, len(s.files))
	for id, f := range s.files {
		stem := strings.TrimSuffix(f.name, ".pdf")
		out[strings.ToLower(stem)] = driven.FileEntry{FileID: id, Name: f.name, Live: f.live}
	}
	return out, nil
}

// Exists reports whether a file ID refers to a stored object.
func (s *FileStore) Exists(_ context.Context, fileID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[fileID]
	return ok, nil
}

// Upload stores content in the tagging area and returns the new file ID.
func (s *FileStore) Upload(_ context.Context, name string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("file-%d", s.nextID)
	s.files[id] = storedFile{name: name, content: content}
	return id, nil
}

// Download returns the file content.
func (s *FileStore) Download(_ context.Context, fileID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[fileID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f.content, nil
}

// Finalize marks the file as live. Idempotent.
func (s *FileStore) Finalize(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[fileID]
	if !ok {
		return domain.ErrNotFound
	}
	f.live = true
	s.files[fileID] = f
	return nil
}

// Delete removes the file.
func (s *FileStore) Delete(_ context.Context, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[fileID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.files, fileID)
	return nil
}
