package memory

import (
	"context"
	"sync"

	"github.com/Raj051299/cms-mobile-app/internal/cms/store"
	"github.com/Raj051299/cms-mobile-app/internal/cms/types"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[string]types.User // keyed by username
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]types.User)}
}

func (s *UserStore) CreateUser(_ context.Context, u types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return store.ErrDuplicate
	}
	s.users[u.Username] = u
	return nil
}

func (s *UserStore) GetUserByUsername(_ context.Context, username string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *UserStore) UpdatePassword(_ context.Context, username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[username] = u
	return nil
}
