package directory

import (
	"context"
	"errors"
	"log/slog"

	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/platform/sentinel"
)

// Service answers org-chart questions for the rest of the system. The
// optional Redis cache accelerates direct-report lookups; cache failures
// degrade to store reads, never to wrong answers.
type Service struct {
	store  Store
	cache  *ReportsCache
	logger *slog.Logger
}

type Option func(*Service)

func WithReportsCache(cache *ReportsCache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("directory store is required")
	}
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// DirectReports resolves the set of active users reporting to managerID.
func (s *Service) DirectReports(ctx context.Context, managerID id.UserID) (map[id.UserID]bool, error) {
	if s.cache != nil {
		reports, ok, err := s.cache.Get(ctx, managerID)
		if err != nil {
			s.logWarn(ctx, "reports cache read failed, falling back to store", err)
		} else if ok {
			return reports, nil
		}
	}

	users, err := s.store.ListActiveByManager(ctx, managerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependencyFailure, "failed to resolve direct reports")
	}

	reports := make(map[id.UserID]bool, len(users))
	reportIDs := make([]id.UserID, 0, len(users))
	for _, user := range users {
		reports[user.ID] = true
		reportIDs = append(reportIDs, user.ID)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, managerID, reportIDs); err != nil {
			s.logWarn(ctx, "reports cache write failed", err)
		}
	}
	return reports, nil
}

// ActiveUsers returns every active directory user.
func (s *Service) ActiveUsers(ctx context.Context) ([]*User, error) {
	users, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependencyFailure, "failed to list active users")
	}
	return users, nil
}

// ActiveReports returns the active users whose manager reference equals
// managerID, as full records for candidate-pool listings.
func (s *Service) ActiveReports(ctx context.Context, managerID id.UserID) ([]*User, error) {
	users, err := s.store.ListActiveByManager(ctx, managerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependencyFailure, "failed to list direct reports")
	}
	return users, nil
}

// RoleOf re-reads the user's role from the system of record. This backs
// the authoritative re-check inside assignment creation; it never consults
// any cache.
func (s *Service) RoleOf(ctx context.Context, userID id.UserID) (id.Role, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeDependencyFailure, "failed to resolve user role")
	}
	return user.Role, nil
}

// Names resolves display names for a set of users. Missing users are
// simply absent from the result; callers treat name resolution as
// best-effort enrichment.
func (s *Service) Names(ctx context.Context, userIDs []id.UserID) (map[id.UserID]string, error) {
	names := make(map[id.UserID]string, len(userIDs))
	for _, userID := range userIDs {
		user, err := s.store.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return nil, dErrors.Wrap(err, dErrors.CodeDependencyFailure, "failed to resolve user names")
		}
		names[userID] = user.Name
	}
	return names, nil
}

func (s *Service) logWarn(ctx context.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, "error", err)
	}
}
