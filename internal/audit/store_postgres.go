package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// PostgresStore persists audit entries in PostgreSQL. Entries are
// append-only; there is no update or delete path.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, entry Entry) error {
	query := `
		INSERT INTO audit_entries (id, actor_id, classification, action, detail, request_id, client, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New(),
		entry.ActorID.String(),
		entry.Classification.String(),
		string(entry.Action),
		entry.Detail,
		entry.RequestID,
		entry.Client,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
