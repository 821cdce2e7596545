// Package ports defines the collaborator interfaces consumed by the
// assignment service. The service takes these as explicit constructor
// dependencies so tests can substitute in-memory fakes without any
// module-level state.
package ports

import (
	"context"
	"time"

	"talentflow/internal/assignment/models"
	"talentflow/internal/audit"
	"talentflow/internal/directory"
	id "talentflow/pkg/domain"
)

// Directory resolves org-chart relationships and display names.
type Directory interface {
	// DirectReports returns the set of active users reporting to managerID.
	DirectReports(ctx context.Context, managerID id.UserID) (map[id.UserID]bool, error)

	// ActiveUsers returns every active directory user.
	ActiveUsers(ctx context.Context) ([]*directory.User, error)

	// ActiveReports returns active users whose manager reference equals managerID.
	ActiveReports(ctx context.Context, managerID id.UserID) ([]*directory.User, error)

	// Names resolves display names; missing users are absent from the result.
	Names(ctx context.Context, userIDs []id.UserID) (map[id.UserID]string, error)
}

// RoleResolver re-reads a user's role from the system of record. Used only
// for the authoritative re-check inside assignment creation.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID id.UserID) (id.Role, error)
}

// AuditPublisher records access to classified data. Emit is fire-and-forget
// and must never fail the caller.
type AuditPublisher interface {
	Emit(ctx context.Context, entry audit.Entry)
}

// Filter selects assignments in a Store query. Nil fields match anything.
// The store supports exact-match on classification and creator, and
// audience membership; visibility unions are composed by the service.
type Filter struct {
	Classification   *id.Classification
	CreatedBy        *id.UserID
	AudienceContains *id.UserID
}

// Store persists assignments.
type Store interface {
	Insert(ctx context.Context, assignment *models.Assignment) error
	Query(ctx context.Context, filter Filter) ([]*models.Assignment, error)

	// MarkExpired transitions active assignments whose due date has elapsed
	// to expired, returning how many changed. Called by the expiry worker.
	MarkExpired(ctx context.Context, now time.Time) (int, error)
}
