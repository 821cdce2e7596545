// Package domain holds shared value types used across modules: typed
// identifiers and the closed enumerations that drive access rules.
//
// IDs are distinct uuid wrappers so the compiler rejects cross-type
// assignment (passing a FormID where a UserID is expected). Construct them
// via the Parse* functions at trust boundaries; direct casting bypasses
// validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "talentflow/pkg/domain-errors"
)

type (
	// UserID identifies a directory user (employee, manager, hr, admin).
	UserID uuid.UUID

	// FormID identifies a form definition.
	FormID uuid.UUID

	// AssignmentID identifies a form assignment.
	AssignmentID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseFormID constructs a FormID from external input.
func ParseFormID(s string) (FormID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return FormID{}, err
	}
	return FormID(u), nil
}

// ParseAssignmentID constructs an AssignmentID from external input.
func ParseAssignmentID(s string) (AssignmentID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return AssignmentID{}, err
	}
	return AssignmentID(u), nil
}

func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id FormID) String() string       { return uuid.UUID(id).String() }
func (id AssignmentID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id FormID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id AssignmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText implements encoding.TextMarshaler so IDs render as canonical
// UUID strings in JSON payloads.
func (id UserID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id FormID) MarshalText() ([]byte, error)       { return []byte(id.String()), nil }
func (id AssignmentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler with full validation.
func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *FormID) UnmarshalText(b []byte) error {
	parsed, err := ParseFormID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *AssignmentID) UnmarshalText(b []byte) error {
	parsed, err := ParseAssignmentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
