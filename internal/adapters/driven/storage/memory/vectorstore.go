package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// Point is one stored vector point's payload view.
type Point struct {
	ID         string
	Identifier string
	FileID     string
	Page       int
}

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu     sync.RWMutex
	points map[string]Point // keyed by point ID
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{points: make(map[string]Point)}
}

// Put stores points directly. Test helper.
func (s *VectorStore) Put(points ...Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		s.points[p.ID] = p
	}
}

// ListByIdentifier aggregates every point by the identifier in its payload.
func (s *VectorStore) ListByIdentifier(_ context.Context) (map[string]driven.VectorAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]driven.VectorAggregate)
	fileIDs := make(map[string]map[string]struct{})
	for _, p := range sortedPoints(s.points) {
		agg := out[p.Identifier]
		agg.RecordCount++
		if p.Page > agg.PageCount {
			agg.PageCount = p.Page
		}
		agg.Points = append(agg.Points, driven.PointRef{ID: p.ID, FileID: p.FileID})
		if p.FileID != "" {
			if fileIDs[p.Identifier] == nil {
				fileIDs[p.Identifier] = make(map[string]struct{})
			}
			fileIDs[p.Identifier][p.FileID] = struct{}{}
		}
		out[p.Identifier] = agg
	}
	for id, ids := range fileIDs {
		agg := out[id]
		for fid := range ids {
			agg.FileIDs = append(agg.FileIDs, fid)
		}
		sort.Strings(agg.FileIDs)
		out[id] = agg
	}
	return out, nil
}

// SetPayloadFileID overwrites one point's payload file ID.
func (s *VectorStore) SetPayloadFileID(_ context.Context, pointID, fileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.points[pointID]
	if !ok {
		return domain.ErrNotFound
	}
	p.FileID = fileID
	s.points[pointID] = p
	return nil
}

// DeleteByIdentifier removes every point whose payload matches the
// identifier. No points is not an error.
func (s *VectorStore) DeleteByIdentifier(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.points {
		if p.Identifier == identifier {
			delete(s.points, id)
		}
	}
	return nil
}

// sortedPoints returns points in stable point-ID order so aggregates are
// deterministic.
func sortedPoints(points map[string]Point) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
