// Package models holds the assignment aggregate and the value objects
// exchanged with the policy engine.
package models

import (
	"time"

	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
)

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	StatusActive    AssignmentStatus = "active"
	StatusCompleted AssignmentStatus = "completed"
	StatusExpired   AssignmentStatus = "expired"
)

// AudienceMode records how the audience was selected in the UI. The policy
// engine treats all modes identically; the mode is kept for reporting.
type AudienceMode string

const (
	ModeIndividual AudienceMode = "individual"
	ModeMultiple   AudienceMode = "multiple"
	ModeAll        AudienceMode = "all"
)

var validModes = map[AudienceMode]bool{
	ModeIndividual: true,
	ModeMultiple:   true,
	ModeAll:        true,
}

// ParseAudienceMode constructs an AudienceMode from external input.
func ParseAudienceMode(s string) (AudienceMode, error) {
	m := AudienceMode(s)
	if !validModes[m] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid audience mode")
	}
	return m, nil
}

// Assignment is the aggregate root for a form directed at an audience.
//
// Invariants:
//   - Audience is non-empty and free of duplicates
//   - Classification is immutable after construction
//   - A mental_health assignment is only ever created by an HR actor; the
//     service re-reads the assigner's role at creation time to enforce this
//   - Status transitions: active → completed, active → expired
type Assignment struct {
	ID             id.AssignmentID   `json:"id"`
	FormID         id.FormID         `json:"form_id"`
	Classification id.Classification `json:"classification"`
	AssignedBy     id.UserID         `json:"assigned_by"`
	Audience       []id.UserID       `json:"audience"`
	Mode           AudienceMode      `json:"mode"`
	DueDate        *time.Time        `json:"due_date,omitempty"`
	Status         AssignmentStatus  `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	// Display enrichment, resolved best-effort after creation. Never
	// persisted; empty when the directory lookup failed.
	AssignedByName string   `json:"assigned_by_name,omitempty"`
	AudienceNames  []string `json:"audience_names,omitempty"`
}

// NewAssignment validates inputs and constructs an active assignment. The
// audience is de-duplicated; an audience that is empty after de-duplication
// is rejected regardless of upstream validation.
func NewAssignment(
	assignmentID id.AssignmentID,
	formID id.FormID,
	classification id.Classification,
	assignedBy id.UserID,
	audience []id.UserID,
	mode AudienceMode,
	dueDate *time.Time,
	now time.Time,
) (*Assignment, error) {
	if formID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "form id is required")
	}
	if assignedBy.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "assigner id is required")
	}
	if !classification.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid classification")
	}
	if !validModes[mode] {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid audience mode")
	}
	deduped := DedupeAudience(audience)
	if len(deduped) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "audience cannot be empty")
	}
	return &Assignment{
		ID:             assignmentID,
		FormID:         formID,
		Classification: classification,
		AssignedBy:     assignedBy,
		Audience:       deduped,
		Mode:           mode,
		DueDate:        dueDate,
		Status:         StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// IsPastDue reports whether the assignment should expire at the given time.
func (a *Assignment) IsPastDue(now time.Time) bool {
	return a.Status == StatusActive && a.DueDate != nil && a.DueDate.Before(now)
}

// HasAudienceMember reports whether userID is a named audience member.
func (a *Assignment) HasAudienceMember(userID id.UserID) bool {
	for _, member := range a.Audience {
		if member == userID {
			return true
		}
	}
	return false
}

// DedupeAudience returns the audience with duplicates removed, preserving
// first-seen order and skipping nil IDs.
func DedupeAudience(audience []id.UserID) []id.UserID {
	seen := make(map[id.UserID]bool, len(audience))
	out := make([]id.UserID, 0, len(audience))
	for _, member := range audience {
		if member.IsNil() || seen[member] {
			continue
		}
		seen[member] = true
		out = append(out, member)
	}
	return out
}

// AuthorizationDecision is the transient outcome of a policy check. It is
// never persisted.
//
// Invariants:
//   - !CanAssign implies AllowedAudience is empty
//   - AllowedAudience is always a subset of the requested audience; the
//     engine only narrows, never expands
type AuthorizationDecision struct {
	CanAssign       bool        `json:"can_assign"`
	CanViewResults  bool        `json:"can_view_results"`
	AllowedAudience []id.UserID `json:"allowed_audience"`
	Reason          string      `json:"reason,omitempty"`
}

// Deny constructs a denial decision with an empty audience.
func Deny(reason string) AuthorizationDecision {
	return AuthorizationDecision{AllowedAudience: []id.UserID{}, Reason: reason}
}

// SeparationResult is the outcome of the pure data-separation guard
// applied in reporting code paths.
type SeparationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// AssignmentsResult is the read-side query result. Notice carries the
// explanatory message for the mental-health visibility override, where a
// non-HR caller receives an empty, successful result rather than an error.
type AssignmentsResult struct {
	Assignments []*Assignment `json:"assignments"`
	Notice      string        `json:"notice,omitempty"`
}
