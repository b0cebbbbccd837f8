package driven

import (
	"context"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
)

// ReportStore persists reconciliation runs, the system's durable artifact.
// Backed by SQLite.
type ReportStore interface {
	// SaveRun stores a completed run and assigns its ID.
	SaveRun(ctx context.Context, run *domain.ReconciliationRun) error

	// GetRun retrieves a run with all its entries.
	GetRun(ctx context.Context, id int64) (*domain.ReconciliationRun, error)

	// ListRuns returns saved runs without entries, newest first.
	ListRuns(ctx context.Context) ([]domain.ReconciliationRun, error)

	// LatestRun returns the most recent run with entries, or
	// domain.ErrNotFound when none exists.
	LatestRun(ctx context.Context) (*domain.ReconciliationRun, error)
}

// EventLog records lifecycle driver actions for audit.
type EventLog interface {
	// Append stores an event and assigns its ID.
	Append(ctx context.Context, event *domain.Event) error

	// List returns recorded events, newest first, up to limit
	// (0 means no limit).
	List(ctx context.Context, limit int) ([]domain.Event, error)
}
