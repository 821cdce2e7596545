// Package directory is the user/org-chart lookup service: who exists, who
// is active, who reports to whom, and what role a user currently holds.
// The assignment module consumes it through narrow interfaces so tests can
// substitute in-memory fakes.
package directory

import (
	"context"

	id "talentflow/pkg/domain"
)

// User is a directory record. Role is the system of record for
// authorization; the assignment service re-reads it at creation time
// rather than trusting a role passed by the caller.
type User struct {
	ID        id.UserID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Position  string     `json:"position"`
	TeamID    string     `json:"team_id,omitempty"`
	ManagerID *id.UserID `json:"manager_id,omitempty"`
	Role      id.Role    `json:"role"`
	Active    bool       `json:"active"`
}

// Store persists directory records. Implementations return sentinel errors
// (pkg/platform/sentinel) for infrastructure facts.
type Store interface {
	FindByID(ctx context.Context, userID id.UserID) (*User, error)
	ListActive(ctx context.Context) ([]*User, error)
	ListActiveByManager(ctx context.Context, managerID id.UserID) ([]*User, error)
	Upsert(ctx context.Context, user *User) error
}
