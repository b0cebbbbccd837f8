package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure SheetStore implements the interface.
var _ driven.SheetStore = (*SheetStore)(nil)

// SheetStore is an in-memory implementation of driven.SheetStore.
// Rows keep insertion order, like a real sheet.
type SheetStore struct {
	mu   sync.RWMutex
	rows []map[string]string
}

// NewSheetStore creates an empty in-memory sheet.
func NewSheetStore() *SheetStore {
	return &SheetStore{}
}

// Seed replaces the sheet contents with the given rows. Test helper.
func (s *SheetStore) Seed(rows ...map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = nil
	for _, row := range rows {
		s.rows = append(s.rows, cloneFields(row))
	}
}

// ListRows returns every data row. Row numbers start at 2, matching a
// sheet whose first row is the header.
func (s *SheetStore) ListRows(_ context.Context) ([]domain.RawRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RawRow, 0, len(s.rows))
	for i, row := range s.rows {
		out = append(out, domain.RawRow{Row: i + 2, Fields: cloneFields(row)})
	}
	return out, nil
}

// AppendRow adds a new row.
func (s *SheetStore) AppendRow(_ context.Context, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, cloneFields(fields))
	return nil
}

// UpdateRow sets fields on every row matching the identifier.
func (s *SheetStore) UpdateRow(_ context.Context, identifier string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for _, row := range s.rows {
		if !matchesIdentifier(row, identifier) {
			continue
		}
		for k, v := range fields {
			row[k] = v
		}
		found = true
	}
	if !found {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteRow removes every row matching the identifier.
func (s *SheetStore) DeleteRow(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if !matchesIdentifier(row, identifier) {
			kept = append(kept, row)
		}
	}
	s.rows = kept
	return nil
}

func matchesIdentifier(row map[string]string, identifier string) bool {
	return strings.EqualFold(strings.TrimSpace(row[domain.ColumnIdentifier]), identifier)
}

func cloneFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
