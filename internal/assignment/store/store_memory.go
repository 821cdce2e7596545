// Package store provides assignment persistence: an in-memory
// implementation for tests and single-node use, and a PostgreSQL
// implementation for real deployments.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"talentflow/internal/assignment/models"
	"talentflow/internal/assignment/ports"
	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/sentinel"
)

// InMemory keeps assignments in a mutex-guarded map.
type InMemory struct {
	mu          sync.RWMutex
	assignments map[id.AssignmentID]*models.Assignment
}

func NewInMemory() *InMemory {
	return &InMemory{assignments: make(map[id.AssignmentID]*models.Assignment)}
}

func (s *InMemory) Insert(_ context.Context, assignment *models.Assignment) error {
	if assignment == nil || assignment.ID.IsNil() {
		return sentinel.ErrInvalidState
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.assignments[assignment.ID]; exists {
		return sentinel.ErrConflict
	}
	copied := copyAssignment(assignment)
	s.assignments[assignment.ID] = copied
	return nil
}

func (s *InMemory) Query(_ context.Context, filter ports.Filter) ([]*models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Assignment
	for _, assignment := range s.assignments {
		if matches(assignment, filter) {
			out = append(out, copyAssignment(assignment))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemory) MarkExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired int
	for _, assignment := range s.assignments {
		if assignment.IsPastDue(now) {
			assignment.Status = models.StatusExpired
			assignment.UpdatedAt = now
			expired++
		}
	}
	return expired, nil
}

func matches(assignment *models.Assignment, filter ports.Filter) bool {
	if filter.Classification != nil && assignment.Classification != *filter.Classification {
		return false
	}
	if filter.CreatedBy != nil && assignment.AssignedBy != *filter.CreatedBy {
		return false
	}
	if filter.AudienceContains != nil && !assignment.HasAudienceMember(*filter.AudienceContains) {
		return false
	}
	return true
}

func copyAssignment(assignment *models.Assignment) *models.Assignment {
	copied := *assignment
	copied.Audience = append([]id.UserID(nil), assignment.Audience...)
	if assignment.DueDate != nil {
		due := *assignment.DueDate
		copied.DueDate = &due
	}
	copied.AudienceNames = append([]string(nil), assignment.AudienceNames...)
	return &copied
}
