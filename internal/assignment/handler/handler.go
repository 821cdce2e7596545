// Package handler is the thin HTTP layer over the assignment service. It
// parses and validates input at the trust boundary, delegates to the
// service, and translates domain errors into the JSON error envelope.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talentflow/internal/assignment/models"
	"talentflow/internal/directory"
	"talentflow/internal/platform/middleware"
	id "talentflow/pkg/domain"
	dErrors "talentflow/pkg/domain-errors"
	"talentflow/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/assignment_mocks.go -package=mocks Service

// Service defines the assignment operations the handler depends on.
type Service interface {
	CheckAssignmentPermission(ctx context.Context, actorID id.UserID, role id.Role, classification id.Classification, requestedAudience []id.UserID) models.AuthorizationDecision
	GetAssignableUsers(ctx context.Context, actorID id.UserID, role id.Role, classification id.Classification) ([]*directory.User, error)
	CreateAssignment(ctx context.Context, formID id.FormID, assignedBy id.UserID, audience []id.UserID, mode models.AudienceMode, classification id.Classification, dueDate *time.Time) (*models.Assignment, error)
	GetUserAssignments(ctx context.Context, actorID id.UserID, role id.Role, classification *id.Classification) (*models.AssignmentsResult, error)
}

// Handler handles assignment endpoints.
type Handler struct {
	service   Service
	logger    *slog.Logger
	validator middleware.TokenValidator
	timeout   time.Duration
}

func New(service Service, logger *slog.Logger, validator middleware.TokenValidator, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Handler{service: service, logger: logger, validator: validator, timeout: timeout}
}

// Register mounts the assignment routes with the full middleware chain.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(h.timeout))
	router.Use(middleware.RequireAuth(h.validator, h.logger))

	router.Post("/assignments/check", h.handleCheckPermission)
	router.Get("/assignments/assignable-users", h.handleAssignableUsers)
	router.Post("/assignments", h.handleCreateAssignment)
	router.Get("/assignments", h.handleListAssignments)

	r.Mount("/", router)
}

func (h *Handler) handleCheckPermission(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, role, ok := h.actor(w, ctx)
	if !ok {
		return
	}

	var req checkPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	classification, audience, err := req.parse()
	if err != nil {
		writeError(w, err)
		return
	}

	decision := h.service.CheckAssignmentPermission(ctx, actorID, role, classification, audience)
	writeJSON(w, http.StatusOK, decision)
}

func (h *Handler) handleAssignableUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, role, ok := h.actor(w, ctx)
	if !ok {
		return
	}

	classification, err := id.ParseClassification(r.URL.Query().Get("classification"))
	if err != nil {
		writeError(w, err)
		return
	}

	users, err := h.service.GetAssignableUsers(ctx, actorID, role, classification)
	if err != nil {
		h.logDenied(ctx, "assignable users rejected", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignableUsersResponse{Users: users})
}

func (h *Handler) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, _, ok := h.actor(w, ctx)
	if !ok {
		return
	}

	var req createAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	parsed, err := req.parse()
	if err != nil {
		writeError(w, err)
		return
	}

	assignment, err := h.service.CreateAssignment(ctx, parsed.formID, actorID,
		parsed.audience, parsed.mode, parsed.classification, parsed.dueDate)
	if err != nil {
		h.logDenied(ctx, "assignment creation rejected", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}

func (h *Handler) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID, role, ok := h.actor(w, ctx)
	if !ok {
		return
	}

	var classification *id.Classification
	if raw := r.URL.Query().Get("classification"); raw != "" {
		parsed, err := id.ParseClassification(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		classification = &parsed
	}

	result, err := h.service.GetUserAssignments(ctx, actorID, role, classification)
	if err != nil {
		h.logDenied(ctx, "assignment listing failed", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// actor pulls the authenticated identity from the context. A missing
// identity means the auth middleware is misconfigured, not a user error.
func (h *Handler) actor(w http.ResponseWriter, ctx context.Context) (id.UserID, id.Role, bool) {
	actorID := requestcontext.ActorID(ctx)
	role := requestcontext.Role(ctx)
	if actorID.IsNil() || role == "" {
		h.logger.ErrorContext(ctx, "actor missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx))
		writeError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, "", false
	}
	return actorID, role, true
}

func (h *Handler) logDenied(ctx context.Context, msg string, err error) {
	if dErrors.HasCode(err, dErrors.CodePermissionDenied) || dErrors.HasCode(err, dErrors.CodeInvalidInput) {
		h.logger.WarnContext(ctx, msg, "error", err,
			"request_id", requestcontext.RequestID(ctx))
		return
	}
	h.logger.ErrorContext(ctx, msg, "error", err,
		"request_id", requestcontext.RequestID(ctx))
}
