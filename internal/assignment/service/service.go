// Package service orchestrates the assignment policy engine: it resolves
// directory relationships, applies the pure rules in internal/assignment/policy,
// persists assignments, and records audit entries. Every policy operation
// is a stateless function of its inputs plus at most one directory read
// and, for creation, one read-then-write pair; no locking is needed.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	assignmentmetrics "talentflow/internal/assignment/metrics"
	"talentflow/internal/assignment/models"
	"talentflow/internal/assignment/policy"
	"talentflow/internal/assignment/ports"
	"talentflow/internal/audit"
	"talentflow/internal/directory"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/requestcontext"
)

// noticeMentalHealthHidden is returned when a non-HR caller queries
// mental-health assignments. The caller receives a successful empty result
// with this notice, never an error and never partial data, so existence of
// out-of-scope records cannot leak through error shapes.
const noticeMentalHealthHidden = "mental-health assignments are only visible to HR"

const tracerName = "talentflow/internal/assignment"

// Service is the policy engine plus its boundary collaborators.
type Service struct {
	store     ports.Store
	dir       ports.Directory
	roles     ports.RoleResolver
	publisher ports.AuditPublisher
	logger    *slog.Logger
	metrics   *assignmentmetrics.Metrics
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *assignmentmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// New constructs the service. Store, directory, and role resolver are
// required; audit, logging, and metrics are optional collaborators.
func New(store ports.Store, dir ports.Directory, roles ports.RoleResolver, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("assignment store is required")
	}
	if dir == nil {
		return nil, errors.New("directory is required")
	}
	if roles == nil {
		return nil, errors.New("role resolver is required")
	}
	svc := &Service{
		store:  store,
		dir:    dir,
		roles:  roles,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckAssignmentPermission decides whether the actor may assign a form of
// the given classification to the requested audience. Denials are returned
// as decisions, never as errors; a failed directory lookup degrades to a
// denial (fail-closed), never to a silent allow.
func (s *Service) CheckAssignmentPermission(
	ctx context.Context,
	actorID id.UserID,
	role id.Role,
	classification id.Classification,
	requestedAudience []id.UserID,
) models.AuthorizationDecision {
	ctx, span := s.tracer.Start(ctx, "assignment.CheckPermission",
		trace.WithAttributes(
			attribute.String("classification", classification.String()),
			attribute.String("role", role.String()),
		))
	defer span.End()

	var reports map[id.UserID]bool
	if policy.NeedsDirectReports(role, classification) {
		resolved, err := s.dir.DirectReports(ctx, actorID)
		if err != nil {
			s.logWarn(ctx, "direct report lookup failed, denying", err,
				"actor", actorID, "classification", classification)
			decision := models.Deny(policy.ReasonTeamLookupFailed)
			s.recordCheck(classification, role, false)
			return decision
		}
		reports = resolved
	}

	decision := policy.Decide(role, classification, requestedAudience, reports)
	s.recordCheck(classification, role, decision.CanAssign)
	s.LogDataAccess(ctx, actorID, classification, audit.ActionAssign,
		fmt.Sprintf("permission check: allowed=%t", decision.CanAssign))
	return decision
}

// GetAssignableUsers narrows the pool of candidate targets before any
// specific audience is chosen. Unlike CheckAssignmentPermission this fails
// with an error when the role may not enumerate at all; there is no
// partial result.
//
// Consistency invariant: any user returned here is accepted by
// CheckAssignmentPermission for the same (actorID, role, classification).
func (s *Service) GetAssignableUsers(
	ctx context.Context,
	actorID id.UserID,
	role id.Role,
	classification id.Classification,
) ([]*directory.User, error) {
	allowed, reason := policy.CanEnumerateAssignable(role, classification)
	if !allowed {
		return nil, dErrors.New(dErrors.CodePermissionDenied, reason)
	}

	var (
		users []*directory.User
		err   error
	)
	if classification == id.ClassificationPerformance && role == id.RoleManager {
		users, err = s.dir.ActiveReports(ctx, actorID)
	} else {
		users, err = s.dir.ActiveUsers(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.LogDataAccess(ctx, actorID, classification, audit.ActionView, "listed assignable users")
	return users, nil
}

// CreateAssignment persists a new assignment after an authoritative role
// check. The assigner's role is re-read from the system of record at call
// time rather than trusted from the request, which also removes the
// role-changed race without locking.
func (s *Service) CreateAssignment(
	ctx context.Context,
	formID id.FormID,
	assignedBy id.UserID,
	audience []id.UserID,
	mode models.AudienceMode,
	classification id.Classification,
	dueDate *time.Time,
) (*models.Assignment, error) {
	ctx, span := s.tracer.Start(ctx, "assignment.Create",
		trace.WithAttributes(attribute.String("classification", classification.String())))
	defer span.End()

	freshRole, err := s.roles.RoleOf(ctx, assignedBy)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependencyFailure, "failed to verify assigner role")
	}
	if classification == id.ClassificationMentalHealth && freshRole != id.RoleHR {
		return nil, dErrors.New(dErrors.CodePermissionDenied, "only HR users may create mental-health assignments")
	}

	now := requestcontext.Now(ctx)
	assignment, err := models.NewAssignment(
		id.AssignmentID(uuid.New()), formID, classification, assignedBy,
		audience, mode, dueDate, now,
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, assignment); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist assignment")
	}

	// Read-after-write display enrichment. Best-effort: a failed name
	// lookup must not fail a creation that already succeeded.
	s.enrichNames(ctx, assignment)

	s.LogDataAccess(ctx, assignedBy, classification, audit.ActionCreate,
		fmt.Sprintf("created assignment %s", assignment.ID))
	if s.metrics != nil {
		s.metrics.IncrementCreated(classification.String())
	}
	return assignment, nil
}

// enrichNames resolves display names for the assigner and audience in
// parallel. Failures are logged and leave the fields empty.
func (s *Service) enrichNames(ctx context.Context, assignment *models.Assignment) {
	var (
		assignerNames map[id.UserID]string
		audienceNames map[id.UserID]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		names, err := s.dir.Names(gctx, []id.UserID{assignment.AssignedBy})
		if err != nil {
			return err
		}
		assignerNames = names
		return nil
	})
	g.Go(func() error {
		names, err := s.dir.Names(gctx, assignment.Audience)
		if err != nil {
			return err
		}
		audienceNames = names
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logWarn(ctx, "display name enrichment failed", err, "assignment", assignment.ID)
		return
	}

	assignment.AssignedByName = assignerNames[assignment.AssignedBy]
	assignment.AudienceNames = make([]string, 0, len(assignment.Audience))
	for _, member := range assignment.Audience {
		if name, ok := audienceNames[member]; ok {
			assignment.AudienceNames = append(assignment.AudienceNames, name)
		}
	}
}

// GetUserAssignments applies the read-side visibility rules:
//
//	admin:    all assignments (all classifications)
//	hr:       every mental_health assignment, plus anything hr created
//	manager:  assignments it created, plus those naming it in the audience
//	employee: only assignments naming it in the audience
//
// Special override: a mental_health classification filter from any non-HR
// role (admins included) yields a successful empty result with a notice.
// Admin metadata-level visibility is intentionally overridden on this
// query path.
func (s *Service) GetUserAssignments(
	ctx context.Context,
	actorID id.UserID,
	role id.Role,
	classification *id.Classification,
) (*models.AssignmentsResult, error) {
	if classification != nil && *classification == id.ClassificationMentalHealth && role != id.RoleHR {
		return &models.AssignmentsResult{
			Assignments: []*models.Assignment{},
			Notice:      noticeMentalHealthHidden,
		}, nil
	}

	filters := visibilityFilters(actorID, role, classification)
	assignments, err := s.queryUnion(ctx, filters)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeDependencyFailure, "failed to load assignments")
	}

	s.auditListAccess(ctx, actorID, classification, assignments)
	return &models.AssignmentsResult{Assignments: assignments}, nil
}

// visibilityFilters composes the store filters whose union is the actor's
// visible set. The store contract only supports exact matches, so OR rules
// become multiple queries merged by queryUnion.
func visibilityFilters(actorID id.UserID, role id.Role, classification *id.Classification) []ports.Filter {
	switch role {
	case id.RoleAdmin:
		return []ports.Filter{{Classification: classification}}
	case id.RoleHR:
		mentalHealth := id.ClassificationMentalHealth
		if classification != nil && *classification != id.ClassificationMentalHealth {
			// Filtered to a non-sensitive classification: only hr's own.
			return []ports.Filter{{Classification: classification, CreatedBy: &actorID}}
		}
		filters := []ports.Filter{{Classification: &mentalHealth}}
		if classification == nil {
			filters = append(filters, ports.Filter{CreatedBy: &actorID})
		}
		return filters
	case id.RoleManager:
		return []ports.Filter{
			{Classification: classification, CreatedBy: &actorID},
			{Classification: classification, AudienceContains: &actorID},
		}
	default:
		return []ports.Filter{{Classification: classification, AudienceContains: &actorID}}
	}
}

// queryUnion merges the results of several filters, de-duplicating by
// assignment ID and preserving newest-first ordering within the merge.
func (s *Service) queryUnion(ctx context.Context, filters []ports.Filter) ([]*models.Assignment, error) {
	seen := make(map[id.AssignmentID]bool)
	merged := make([]*models.Assignment, 0)
	for _, filter := range filters {
		assignments, err := s.store.Query(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, assignment := range assignments {
			if seen[assignment.ID] {
				continue
			}
			seen[assignment.ID] = true
			merged = append(merged, assignment)
		}
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	return merged, nil
}

// auditListAccess records a view when classified data was actually read:
// always for an explicit classification filter, otherwise only when the
// unfiltered result surfaced mental-health records.
func (s *Service) auditListAccess(
	ctx context.Context,
	actorID id.UserID,
	classification *id.Classification,
	assignments []*models.Assignment,
) {
	if classification != nil {
		s.LogDataAccess(ctx, actorID, *classification, audit.ActionView,
			fmt.Sprintf("listed %d assignments", len(assignments)))
		return
	}
	for _, assignment := range assignments {
		if assignment.Classification == id.ClassificationMentalHealth {
			s.LogDataAccess(ctx, actorID, id.ClassificationMentalHealth, audit.ActionView,
				"listed assignments including mental-health records")
			return
		}
	}
}

func (s *Service) recordCheck(classification id.Classification, role id.Role, allowed bool) {
	if s.metrics != nil {
		s.metrics.IncrementCheck(classification.String(), role.String(), allowed)
	}
}

// LogDataAccess records an access to classified data. Fire-and-forget: the
// publisher signature has no error return, so a failed audit write can
// never gate the triggering operation.
func (s *Service) LogDataAccess(
	ctx context.Context,
	actorID id.UserID,
	classification id.Classification,
	action audit.Action,
	detail string,
) {
	if s.publisher == nil {
		return
	}
	s.publisher.Emit(ctx, audit.Entry{
		ActorID:        actorID,
		Classification: classification,
		Action:         action,
		Detail:         detail,
		RequestID:      requestcontext.RequestID(ctx),
		Timestamp:      requestcontext.Now(ctx),
	})
}

// ValidateDataSeparation is the pure guard applied in reporting code
// paths; delegated to the policy package so it stays side-effect free and
// trivially idempotent.
func (s *Service) ValidateDataSeparation(
	classification id.Classification,
	role id.Role,
	accessContext id.AccessContext,
) models.SeparationResult {
	return policy.ValidateDataSeparation(classification, role, accessContext)
}

func (s *Service) logWarn(ctx context.Context, msg string, err error, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, append([]any{"error", err}, args...)...)
	}
}
