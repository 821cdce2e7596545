package directory

import (
	"context"
	"sync"

	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/sentinel"
)

// InMemoryStore keeps directory records in memory. Intentionally favors
// clarity over performance; used in tests and single-node deployments.
type InMemoryStore struct {
	mu    sync.RWMutex
	users map[id.UserID]*User
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{users: make(map[id.UserID]*User)}
}

func (s *InMemoryStore) FindByID(_ context.Context, userID id.UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[userID]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListActive(_ context.Context) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*User
	for _, user := range s.users {
		if user.Active {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListActiveByManager(_ context.Context, managerID id.UserID) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*User
	for _, user := range s.users {
		if user.Active && user.ManagerID != nil && *user.ManagerID == managerID {
			copied := *user
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, user *User) error {
	if user == nil || user.ID.IsNil() {
		return sentinel.ErrInvalidState
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *user
	s.users[user.ID] = &copied
	return nil
}
