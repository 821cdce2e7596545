//go:build integration

package directory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"talentflow/internal/directory"
	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/sentinel"
	"talentflow/pkg/testutil/containers"
)

type DirectoryIntegrationSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *containers.RedisContainer
	store    *directory.PostgresStore
}

func TestDirectoryIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DirectoryIntegrationSuite))
}

func (s *DirectoryIntegrationSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.redis = containers.NewRedisContainer(s.T())
	s.store = directory.NewPostgresStore(s.postgres.DB)
}

func (s *DirectoryIntegrationSuite) TearDownSuite() {
	ctx := context.Background()
	if s.redis != nil {
		_ = s.redis.Client.Close()
		_ = s.redis.Container.Terminate(ctx)
	}
	if s.postgres != nil {
		_ = s.postgres.DB.Close()
		_ = s.postgres.Container.Terminate(ctx)
	}
}

func (s *DirectoryIntegrationSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "users"))
	s.Require().NoError(s.redis.FlushAll(ctx))
}

func (s *DirectoryIntegrationSuite) TestStoreRoundTrip() {
	ctx := context.Background()
	manager := id.UserID(uuid.New())
	report := id.UserID(uuid.New())

	s.Require().NoError(s.store.Upsert(ctx, &directory.User{
		ID: manager, Name: "Morgan Diaz", Email: "morgan@example.com",
		Position: "Engineering Manager", TeamID: "platform",
		Role: id.RoleManager, Active: true,
	}))
	s.Require().NoError(s.store.Upsert(ctx, &directory.User{
		ID: report, Name: "Riley Park", Email: "riley@example.com",
		ManagerID: &manager, Role: id.RoleEmployee, Active: true,
	}))

	s.Run("find by id", func() {
		user, err := s.store.FindByID(ctx, manager)
		s.Require().NoError(err)
		s.Equal("Morgan Diaz", user.Name)
		s.Equal(id.RoleManager, user.Role)
	})

	s.Run("missing user is not found", func() {
		_, err := s.store.FindByID(ctx, id.UserID(uuid.New()))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("active by manager", func() {
		users, err := s.store.ListActiveByManager(ctx, manager)
		s.Require().NoError(err)
		s.Require().Len(users, 1)
		s.Equal(report, users[0].ID)
	})

	s.Run("upsert updates in place", func() {
		s.Require().NoError(s.store.Upsert(ctx, &directory.User{
			ID: report, Name: "Riley Park", Email: "riley@example.com",
			ManagerID: &manager, Role: id.RoleEmployee, Active: false,
		}))
		users, err := s.store.ListActiveByManager(ctx, manager)
		s.Require().NoError(err)
		s.Empty(users)
	})
}

func (s *DirectoryIntegrationSuite) TestReportsCache() {
	ctx := context.Background()
	cache := directory.NewReportsCache(s.redis.Client, time.Minute)
	manager := id.UserID(uuid.New())
	report := id.UserID(uuid.New())

	s.Run("miss before put", func() {
		_, ok, err := cache.Get(ctx, manager)
		s.NoError(err)
		s.False(ok)
	})

	s.Run("put then hit", func() {
		s.Require().NoError(cache.Put(ctx, manager, []id.UserID{report}))
		reports, ok, err := cache.Get(ctx, manager)
		s.Require().NoError(err)
		s.True(ok)
		s.True(reports[report])
		s.Len(reports, 1)
	})

	s.Run("empty set is cached, not a miss", func() {
		loner := id.UserID(uuid.New())
		s.Require().NoError(cache.Put(ctx, loner, nil))
		reports, ok, err := cache.Get(ctx, loner)
		s.Require().NoError(err)
		s.True(ok)
		s.Empty(reports)
	})

	s.Run("invalidate forgets", func() {
		s.Require().NoError(cache.Invalidate(ctx, manager))
		_, ok, err := cache.Get(ctx, manager)
		s.NoError(err)
		s.False(ok)
	})
}

func (s *DirectoryIntegrationSuite) TestServiceUsesCacheAcrossStoreChanges() {
	ctx := context.Background()
	manager := id.UserID(uuid.New())
	report := id.UserID(uuid.New())

	s.Require().NoError(s.store.Upsert(ctx, &directory.User{
		ID: manager, Name: "Morgan Diaz", Role: id.RoleManager, Active: true,
	}))
	s.Require().NoError(s.store.Upsert(ctx, &directory.User{
		ID: report, Name: "Riley Park", ManagerID: &manager, Role: id.RoleEmployee, Active: true,
	}))

	cache := directory.NewReportsCache(s.redis.Client, time.Minute)
	svc, err := directory.NewService(s.store, directory.WithReportsCache(cache))
	s.Require().NoError(err)

	reports, err := svc.DirectReports(ctx, manager)
	s.Require().NoError(err)
	s.True(reports[report])

	// Deactivate the report in the store; the cached set still answers
	// until invalidated or expired.
	s.Require().NoError(s.store.Upsert(ctx, &directory.User{
		ID: report, Name: "Riley Park", ManagerID: &manager, Role: id.RoleEmployee, Active: false,
	}))
	reports, err = svc.DirectReports(ctx, manager)
	s.Require().NoError(err)
	s.True(reports[report])

	s.Require().NoError(cache.Invalidate(ctx, manager))
	reports, err = svc.DirectReports(ctx, manager)
	s.Require().NoError(err)
	s.Empty(reports)
}
