package audit

import (
	"context"
	"sync"

	id "talentflow/pkg/domain"
)

// InMemoryStore keeps audit entries in memory. Used in tests and as the
// default sink when no database is configured; favors clarity over
// performance.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// ListByActor returns entries recorded for an actor, oldest first. Used by
// the compliance endpoint and tests; the policy engine never calls it.
func (s *InMemoryStore) ListByActor(_ context.Context, actorID id.UserID) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, entry := range s.entries {
		if entry.ActorID == actorID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// Len reports the number of stored entries.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
