package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

type MemberStore struct {
	mu      sync.RWMutex
	members map[string]types.Member
}

func NewMemberStore() *MemberStore {
	return &MemberStore{members: make(map[string]types.Member)}
}

func (s *MemberStore) CreateMember(_ context.Context, m types.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[m.ID]; ok {
		return store.ErrDuplicate
	}
	s.members[m.ID] = cloneMember(m)
	return nil
}

func (s *MemberStore) GetMember(_ context.Context, id string) (types.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return types.Member{}, store.ErrNotFound
	}
	return cloneMember(m), nil
}

func (s *MemberStore) UpdateMember(_ context.Context, m types.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.members[m.ID]
	if !ok {
		return store.ErrNotFound
	}
	m.CreatedAt = prev.CreatedAt
	s.members[m.ID] = cloneMember(m)
	return nil
}

func (s *MemberStore) DeleteMember(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.members, id)
	return nil
}

func (s *MemberStore) ListMembers(_ context.Context) ([]types.Member, error) {
	s.mu.RLock()
	out := make([]types.Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, cloneMember(m))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemberStore) FindByContact(_ context.Context, contact string) (types.Member, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return types.Member{}, store.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.Email == contact || m.Mobile == contact {
			return cloneMember(m), nil
		}
	}
	return types.Member{}, store.ErrNotFound
}

func cloneMember(m types.Member) types.Member {
	m.Interests = slices.Clone(m.Interests)
	if m.DateOfBirth != nil {
		d := *m.DateOfBirth
		m.DateOfBirth = &d
	}
	return m
}
