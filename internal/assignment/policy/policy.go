// Package policy contains the pure authorization rules for form
// assignments. This is pure domain logic - no I/O, no side effects. Every
// function receives all data it needs as arguments and returns a decision,
// which keeps the rules centralized and testable.
//
// The rules distinguish two sensitivity classes: performance forms follow
// the management chain, mental_health forms are restricted to HR without
// exception. Unknown roles or classifications always deny (fail-closed).
package policy

import (
	"talentflow/internal/assignment/models"
	id "talentflow/pkg/domain"
)

// Denial and narrowing reasons surfaced to callers. These are display-safe
// and never include audience identifiers.
const (
	ReasonMentalHealthHROnly  = "only HR may assign mental-health forms"
	ReasonPerformanceRestrict = "only admins and managers may assign performance forms"
	ReasonUnknownClass        = "unrecognized form classification"
	ReasonPartialTeam         = "some users are not in your direct team"
	ReasonTeamLookupFailed    = "failed to verify team membership"

	ReasonSeparationReport = "mental-health data must not appear in managerial reports"
	ReasonSeparationAccess = "only HR may access mental-health data"
)

// Decide applies the assignment permission table. Rows are evaluated in
// order; the first match wins.
//
//	mental_health + hr       → allow, full audience
//	mental_health + other    → deny
//	performance   + admin    → allow, full audience
//	performance   + manager  → allow narrowed to direct reports
//	performance   + other    → deny
//	unknown classification   → deny
//
// directReports is only consulted for the manager/performance row; callers
// without that row may pass nil. The caller is responsible for resolving
// direct reports before calling and for failing closed when the lookup
// errors (see service.CheckAssignmentPermission).
func Decide(
	role id.Role,
	classification id.Classification,
	requested []id.UserID,
	directReports map[id.UserID]bool,
) models.AuthorizationDecision {
	requested = models.DedupeAudience(requested)

	switch classification {
	case id.ClassificationMentalHealth:
		if role == id.RoleHR {
			return models.AuthorizationDecision{
				CanAssign:       true,
				CanViewResults:  true,
				AllowedAudience: requested,
			}
		}
		return models.Deny(ReasonMentalHealthHROnly)

	case id.ClassificationPerformance:
		switch role {
		case id.RoleAdmin:
			return models.AuthorizationDecision{
				CanAssign:       true,
				CanViewResults:  true,
				AllowedAudience: requested,
			}
		case id.RoleManager:
			return decideManager(requested, directReports)
		default:
			return models.Deny(ReasonPerformanceRestrict)
		}

	default:
		return models.Deny(ReasonUnknownClass)
	}
}

// decideManager narrows the requested audience to the manager's direct
// reports. A strict-subset narrowing keeps CanAssign true but attaches an
// informational reason; an empty intersection denies.
func decideManager(requested []id.UserID, directReports map[id.UserID]bool) models.AuthorizationDecision {
	allowed := make([]id.UserID, 0, len(requested))
	for _, member := range requested {
		if directReports[member] {
			allowed = append(allowed, member)
		}
	}

	decision := models.AuthorizationDecision{
		CanAssign:       len(allowed) > 0,
		CanViewResults:  true,
		AllowedAudience: allowed,
	}
	if len(allowed) < len(requested) {
		decision.Reason = ReasonPartialTeam
	}
	return decision
}

// NeedsDirectReports reports whether Decide will consult the direct-report
// set for this role/classification pair, so callers only hit the directory
// when the manager row is in play.
func NeedsDirectReports(role id.Role, classification id.Classification) bool {
	return classification == id.ClassificationPerformance && role == id.RoleManager
}

// ValidateDataSeparation is the stateless guard applied in reporting code
// paths. Report contexts carry the stricter reason so the caller can
// surface why a managerial report must exclude the data.
func ValidateDataSeparation(classification id.Classification, role id.Role, context id.AccessContext) models.SeparationResult {
	if classification != id.ClassificationMentalHealth || role == id.RoleHR {
		return models.SeparationResult{Valid: true}
	}
	if context == id.ContextReport {
		return models.SeparationResult{Valid: false, Reason: ReasonSeparationReport}
	}
	return models.SeparationResult{Valid: false, Reason: ReasonSeparationAccess}
}

// CanEnumerateAssignable reports whether the role may enumerate candidate
// targets for the classification at all. Admins can view aggregate
// assignment metadata but can never enumerate mental-health-assignable
// users; the two checks are deliberately distinct.
func CanEnumerateAssignable(role id.Role, classification id.Classification) (bool, string) {
	switch classification {
	case id.ClassificationMentalHealth:
		if role == id.RoleHR {
			return true, ""
		}
		return false, "only HR users may assign mental-health forms"
	case id.ClassificationPerformance:
		if role == id.RoleAdmin || role == id.RoleManager {
			return true, ""
		}
		return false, ReasonPerformanceRestrict
	default:
		return false, ReasonUnknownClass
	}
}
