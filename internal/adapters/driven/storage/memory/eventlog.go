package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/librarian-cli/internal/core/domain"
	"github.com/custodia-labs/librarian-cli/internal/core/ports/driven"
)

// Ensure EventLog implements the interface.
var _ driven.EventLog = (*EventLog)(nil)

// EventLog is an in-memory implementation of driven.EventLog.
type EventLog struct {
	mu     sync.RWMutex
	events []domain.Event
	nextID int64
}

// NewEventLog creates an empty in-memory event log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append stores an event and assigns its ID.
func (l *EventLog) Append(_ context.Context, event *domain.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	event.ID = l.nextID
	l.events = append(l.events, *event)
	return nil
}

// List returns recorded events, newest first, up to limit (0 = no limit).
func (l *EventLog) List(_ context.Context, limit int) ([]domain.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Event, 0, len(l.events))
	for i := len(l.events) - 1; i >= 0; i-- {
		out = append(out, l.events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
