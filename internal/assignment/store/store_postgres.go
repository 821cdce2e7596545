package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"talentflow/internal/assignment/models"
	"talentflow/internal/assignment/ports"
	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/sentinel"
)

// Postgres persists assignments via lib/pq. The audience is stored as a
// text[] of UUIDs; membership queries use = ANY(audience).
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Insert(ctx context.Context, assignment *models.Assignment) error {
	if assignment == nil || assignment.ID.IsNil() {
		return sentinel.ErrInvalidState
	}
	audience := make([]string, len(assignment.Audience))
	for i, member := range assignment.Audience {
		audience[i] = member.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assignments
			(id, form_id, classification, assigned_by, audience, mode, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		assignment.ID.String(),
		assignment.FormID.String(),
		assignment.Classification.String(),
		assignment.AssignedBy.String(),
		pq.Array(audience),
		string(assignment.Mode),
		assignment.DueDate,
		string(assignment.Status),
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (s *Postgres) Query(ctx context.Context, filter ports.Filter) ([]*models.Assignment, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.Classification != nil {
		conditions = append(conditions, "classification = "+arg(filter.Classification.String()))
	}
	if filter.CreatedBy != nil {
		conditions = append(conditions, "assigned_by = "+arg(filter.CreatedBy.String()))
	}
	if filter.AudienceContains != nil {
		conditions = append(conditions, arg(filter.AudienceContains.String())+" = ANY(audience)")
	}

	query := `
		SELECT id, form_id, classification, assigned_by, audience, mode, due_date, status, created_at, updated_at
		FROM assignments`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}
	defer rows.Close()

	var out []*models.Assignment
	for rows.Next() {
		assignment, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return out, nil
}

func (s *Postgres) MarkExpired(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE assignments
		SET status = $1, updated_at = $2
		WHERE status = $3 AND due_date IS NOT NULL AND due_date < $2
	`, string(models.StatusExpired), now, string(models.StatusActive))
	if err != nil {
		return 0, fmt.Errorf("mark expired assignments: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count expired assignments: %w", err)
	}
	return int(affected), nil
}

func scanAssignment(rows *sql.Rows) (*models.Assignment, error) {
	var (
		assignment  models.Assignment
		rawID       string
		rawForm     string
		rawClass    string
		rawAssigner string
		rawAudience []string
		rawMode     string
		dueDate     sql.NullTime
		rawStatus   string
	)
	if err := rows.Scan(&rawID, &rawForm, &rawClass, &rawAssigner,
		pq.Array(&rawAudience), &rawMode, &dueDate, &rawStatus,
		&assignment.CreatedAt, &assignment.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan assignment: %w", err)
	}

	assignmentID, err := id.ParseAssignmentID(rawID)
	if err != nil {
		return nil, fmt.Errorf("corrupt assignment id %q: %w", rawID, err)
	}
	formID, err := id.ParseFormID(rawForm)
	if err != nil {
		return nil, fmt.Errorf("corrupt form id %q: %w", rawForm, err)
	}
	assigner, err := id.ParseUserID(rawAssigner)
	if err != nil {
		return nil, fmt.Errorf("corrupt assigner id %q: %w", rawAssigner, err)
	}
	classification, err := id.ParseClassification(rawClass)
	if err != nil {
		return nil, fmt.Errorf("corrupt classification %q: %w", rawClass, err)
	}

	audience := make([]id.UserID, 0, len(rawAudience))
	for _, raw := range rawAudience {
		member, err := id.ParseUserID(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt audience member %q: %w", raw, err)
		}
		audience = append(audience, member)
	}

	assignment.ID = assignmentID
	assignment.FormID = formID
	assignment.Classification = classification
	assignment.AssignedBy = assigner
	assignment.Audience = audience
	assignment.Mode = models.AudienceMode(rawMode)
	assignment.Status = models.AssignmentStatus(rawStatus)
	if dueDate.Valid {
		due := dueDate.Time
		assignment.DueDate = &due
	}
	return &assignment, nil
}
