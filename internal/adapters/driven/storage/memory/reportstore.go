package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure ReportStore implements the interface.
var _ driven.ReportStore = (*ReportStore)(nil)

// ReportStore is an in-memory implementation of driven.ReportStore.
type ReportStore struct {
	mu     sync.RWMutex
	runs   []domain.ReconciliationRun
	nextID int64
}

// NewReportStore creates an empty in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// SaveRun stores a completed run and assigns its ID.
func (s *ReportStore) SaveRun(_ context.Context, run *domain.ReconciliationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	run.ID = s.nextID
	s.runs = append(s.runs, *run)
	return nil
}

// GetRun retrieves a run with all its entries.
func (s *ReportStore) GetRun(_ context.Context, id int64) (*domain.ReconciliationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.runs {
		if s.runs[i].ID == id {
			run := s.runs[i]
			return &run, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListRuns returns saved runs without entries, newest first.
func (s *ReportStore) ListRuns(_ context.Context) ([]domain.ReconciliationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ReconciliationRun, 0, len(s.runs))
	for i := len(s.runs) - 1; i >= 0; i-- {
		run := s.runs[i]
		run.Entries = nil
		out = append(out, run)
	}
	return out, nil
}

// LatestRun returns the most recent run with entries.
func (s *ReportStore) LatestRun(_ context.Context) (*domain.ReconciliationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.runs) == 0 {
		return nil, domain.ErrNotFound
	}
	run := s.runs[len(s.runs)-1]
	return &run, nil
}
