package domain

import dErrors "talentflow/pkg/domain-errors"

// Role is the actor's position in the org hierarchy as recorded on their
// profile. Immutable per session.
//
// Usage: construct via ParseRole at trust boundaries to enforce the
// allowlist; direct casting bypasses validation. Policy code must treat any
// value outside the allowlist as unauthorized.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

// validRoles is the single source of truth for supported roles.
var validRoles = map[Role]bool{
	RoleEmployee: true,
	RoleManager:  true,
	RoleHR:       true,
	RoleAdmin:    true,
}

// ParseRole constructs a Role from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role")
	}
	return r, nil
}

// IsValid checks if the role is one of the supported enum values.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
