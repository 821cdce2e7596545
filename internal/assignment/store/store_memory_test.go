package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"talentflow/internal/assignment/models"
	"talentflow/internal/assignment/ports"
	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemory
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.now = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) newAssignment(creator id.UserID, classification id.Classification, audience []id.UserID, createdAt time.Time) *models.Assignment {
	s.T().Helper()
	assignment, err := models.NewAssignment(
		id.AssignmentID(uuid.New()),
		id.FormID(uuid.New()),
		classification,
		creator,
		audience,
		models.ModeIndividual,
		nil,
		createdAt,
	)
	s.Require().NoError(err)
	return assignment
}

func userID(t *testing.T) id.UserID {
	t.Helper()
	parsed, err := id.ParseUserID(uuid.NewString())
	require.NoError(t, err)
	return parsed
}

func (s *InMemoryStoreSuite) TestInsert() {
	creator := userID(s.T())
	member := userID(s.T())

	s.Run("stores and retrieves", func() {
		assignment := s.newAssignment(creator, id.ClassificationPerformance, []id.UserID{member}, s.now)
		s.Require().NoError(s.store.Insert(s.ctx, assignment))

		got, err := s.store.Query(s.ctx, ports.Filter{})
		s.NoError(err)
		s.Require().Len(got, 1)
		s.Equal(assignment.ID, got[0].ID)
	})

	s.Run("duplicate id conflicts", func() {
		assignment := s.newAssignment(creator, id.ClassificationPerformance, []id.UserID{member}, s.now)
		s.Require().NoError(s.store.Insert(s.ctx, assignment))
		s.ErrorIs(s.store.Insert(s.ctx, assignment), sentinel.ErrConflict)
	})

	s.Run("nil assignment rejected", func() {
		s.ErrorIs(s.store.Insert(s.ctx, nil), sentinel.ErrInvalidState)
	})

	s.Run("stored copy is isolated from caller mutation", func() {
		assignment := s.newAssignment(creator, id.ClassificationPerformance, []id.UserID{member}, s.now)
		s.Require().NoError(s.store.Insert(s.ctx, assignment))

		assignment.Audience[0] = userID(s.T())

		got, err := s.store.Query(s.ctx, ports.Filter{CreatedBy: &creator})
		s.Require().NoError(err)
		for _, stored := range got {
			if stored.ID == assignment.ID {
				s.Equal(member, stored.Audience[0])
			}
		}
	})
}

func (s *InMemoryStoreSuite) TestQueryFilters() {
	alice := userID(s.T())
	bob := userID(s.T())
	hrUser := userID(s.T())

	perf := s.newAssignment(alice, id.ClassificationPerformance, []id.UserID{bob}, s.now)
	mental := s.newAssignment(hrUser, id.ClassificationMentalHealth, []id.UserID{bob}, s.now.Add(time.Minute))
	other := s.newAssignment(alice, id.ClassificationPerformance, []id.UserID{hrUser}, s.now.Add(2*time.Minute))
	for _, assignment := range []*models.Assignment{perf, mental, other} {
		s.Require().NoError(s.store.Insert(s.ctx, assignment))
	}

	s.Run("by classification", func() {
		mentalHealth := id.ClassificationMentalHealth
		got, err := s.store.Query(s.ctx, ports.Filter{Classification: &mentalHealth})
		s.NoError(err)
		s.Require().Len(got, 1)
		s.Equal(mental.ID, got[0].ID)
	})

	s.Run("by creator", func() {
		got, err := s.store.Query(s.ctx, ports.Filter{CreatedBy: &alice})
		s.NoError(err)
		s.Len(got, 2)
	})

	s.Run("by audience membership", func() {
		got, err := s.store.Query(s.ctx, ports.Filter{AudienceContains: &bob})
		s.NoError(err)
		s.Len(got, 2)
	})

	s.Run("combined filters", func() {
		performance := id.ClassificationPerformance
		got, err := s.store.Query(s.ctx, ports.Filter{
			Classification:   &performance,
			CreatedBy:        &alice,
			AudienceContains: &bob,
		})
		s.NoError(err)
		s.Require().Len(got, 1)
		s.Equal(perf.ID, got[0].ID)
	})

	s.Run("newest first", func() {
		got, err := s.store.Query(s.ctx, ports.Filter{})
		s.NoError(err)
		s.Require().Len(got, 3)
		s.Equal(other.ID, got[0].ID)
		s.Equal(mental.ID, got[1].ID)
		s.Equal(perf.ID, got[2].ID)
	})

	s.Run("no match returns empty", func() {
		outsider := userID(s.T())
		got, err := s.store.Query(s.ctx, ports.Filter{AudienceContains: &outsider})
		s.NoError(err)
		s.Empty(got)
	})
}

func (s *InMemoryStoreSuite) TestMarkExpired() {
	creator := userID(s.T())
	member := userID(s.T())

	pastDue := s.now.Add(-time.Hour)
	future := s.now.Add(time.Hour)

	expired := s.newAssignment(creator, id.ClassificationPerformance, []id.UserID{member}, s.now.Add(-2*time.Hour))
	expired.DueDate = &pastDue
	current := s.newAssignment(creator, id.ClassificationPerformance, []id.UserID{member}, s.now)
	current.DueDate = &future
	undated := s.newAssignment(creator, id.ClassificationPerformance, []id.UserID{member}, s.now)
	for _, assignment := range []*models.Assignment{expired, current, undated} {
		s.Require().NoError(s.store.Insert(s.ctx, assignment))
	}

	count, err := s.store.MarkExpired(s.ctx, s.now)
	s.NoError(err)
	s.Equal(1, count)

	got, err := s.store.Query(s.ctx, ports.Filter{})
	s.Require().NoError(err)
	statuses := make(map[id.AssignmentID]models.AssignmentStatus)
	for _, assignment := range got {
		statuses[assignment.ID] = assignment.Status
	}
	s.Equal(models.StatusExpired, statuses[expired.ID])
	s.Equal(models.StatusActive, statuses[current.ID])
	s.Equal(models.StatusActive, statuses[undated.ID])

	s.Run("idempotent", func() {
		count, err := s.store.MarkExpired(s.ctx, s.now)
		s.NoError(err)
		s.Zero(count)
	})
}
