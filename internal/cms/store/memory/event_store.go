package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

type EventStore struct {
	mu     sync.RWMutex
	events map[string]types.Event
}

func NewEventStore() *EventStore {
	return &EventStore{events: make(map[string]types.Event)}
}

func (s *EventStore) CreateEvent(_ context.Context, e types.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.ID]; ok {
		return store.ErrDuplicate
	}
	s.events[e.ID] = e
	return nil
}

func (s *EventStore) GetEvent(_ context.Context, id string) (types.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return types.Event{}, store.ErrNotFound
	}
	return e, nil
}

func (s *EventStore) UpdateEvent(_ context.Context, e types.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.events[e.ID]
	if !ok {
		return store.ErrNotFound
	}
	e.CreatedAt = prev.CreatedAt
	s.events[e.ID] = e
	return nil
}

func (s *EventStore) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *EventStore) ListEvents(_ context.Context) ([]types.Event, error) {
	s.mu.RLock()
	out := make([]types.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ScheduledAt.Before(out[j].ScheduledAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *EventStore) exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.events[id]
	return ok
}
