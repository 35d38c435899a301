package memory

import (
	"context"
	"sync"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
)

// ClockAuditStore is an in-memory append-only log of clock actions.
// It is intended for use in tests and dev environments.
type ClockAuditStore struct {
	mu      sync.Mutex
	entries []store.ClockAuditEntry
}

func NewClockAuditStore() *ClockAuditStore {
	return &ClockAuditStore{}
}

func (s *ClockAuditStore) RecordClock(_ context.Context, e store.ClockAuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *ClockAuditStore) ListClockAudit(_ context.Context, eventID string) ([]store.ClockAuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []store.ClockAuditEntry
	for _, e := range s.entries {
		if e.EventID == eventID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Entries returns a copy of all recorded entries.  Test-only helper.
func (s *ClockAuditStore) Entries() []store.ClockAuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.ClockAuditEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
