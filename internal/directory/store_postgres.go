package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "talentflow/pkg/domain"
	"talentflow/pkg/platform/sentinel"
)

// PostgresStore persists directory records in PostgreSQL via lib/pq.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const userColumns = `id, name, email, position, team_id, manager_id, role, active`

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID.String())
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (s *PostgresStore) ListActiveByManager(ctx context.Context, managerID id.UserID) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE active AND manager_id = $1 ORDER BY name`,
		managerID.String())
	if err != nil {
		return nil, fmt.Errorf("list direct reports: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (s *PostgresStore) Upsert(ctx context.Context, user *User) error {
	if user == nil || user.ID.IsNil() {
		return sentinel.ErrInvalidState
	}
	var managerID any
	if user.ManagerID != nil {
		managerID = user.ManagerID.String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, position, team_id, manager_id, role, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			position = EXCLUDED.position,
			team_id = EXCLUDED.team_id,
			manager_id = EXCLUDED.manager_id,
			role = EXCLUDED.role,
			active = EXCLUDED.active
	`, user.ID.String(), user.Name, user.Email, user.Position, user.TeamID,
		managerID, user.Role.String(), user.Active)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		user      User
		rawID     string
		teamID    sql.NullString
		managerID sql.NullString
		rawRole   string
	)
	if err := row.Scan(&rawID, &user.Name, &user.Email, &user.Position,
		&teamID, &managerID, &rawRole, &user.Active); err != nil {
		return nil, err
	}
	parsedID, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("corrupt user id %q: %w", rawID, err)
	}
	user.ID = parsedID
	user.TeamID = teamID.String
	if managerID.Valid {
		parsedManager, err := id.ParseUserID(managerID.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt manager id %q: %w", managerID.String, err)
		}
		user.ManagerID = &parsedManager
	}
	role, err := id.ParseRole(rawRole)
	if err != nil {
		return nil, fmt.Errorf("corrupt role %q: %w", rawRole, err)
	}
	user.Role = role
	return &user, nil
}

func collectUsers(rows *sql.Rows) ([]*User, error) {
	var out []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}
