//go:build integration

// Package containers starts throwaway infrastructure for integration
// tests. Containers are shared per test binary; Ryuk reaps them when the
// run ends.
package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema mirrors the production DDL for the tables the stores touch.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	email       TEXT NOT NULL DEFAULT '',
	position    TEXT NOT NULL DEFAULT '',
	team_id     TEXT NOT NULL DEFAULT '',
	manager_id  UUID,
	role        TEXT NOT NULL,
	active      BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS assignments (
	id              UUID PRIMARY KEY,
	form_id         UUID NOT NULL,
	classification  TEXT NOT NULL,
	assigned_by     UUID NOT NULL,
	audience        TEXT[] NOT NULL,
	mode            TEXT NOT NULL,
	due_date        TIMESTAMPTZ,
	status          TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_assignments_classification ON assignments (classification);
CREATE INDEX IF NOT EXISTS idx_assignments_assigned_by ON assignments (assigned_by);
CREATE INDEX IF NOT EXISTS idx_assignments_audience ON assignments USING GIN (audience);

CREATE TABLE IF NOT EXISTS audit_entries (
	id              UUID PRIMARY KEY,
	actor_id        UUID NOT NULL,
	classification  TEXT NOT NULL,
	action          TEXT NOT NULL,
	detail          TEXT NOT NULL DEFAULT '',
	request_id      TEXT NOT NULL DEFAULT '',
	client          TEXT NOT NULL DEFAULT '',
	created_at      TIMESTAMPTZ NOT NULL
);
`

// PostgresContainer wraps a testcontainers Postgres instance with an open
// connection pool and the schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
	URL       string
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("talentflow_test"),
		tcpostgres.WithUsername("talentflow"),
		tcpostgres.WithPassword("talentflow"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{Container: container, DB: db, URL: url}
}

// TruncateTables empties the given tables between tests.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx,
		fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", ")))
	return err
}
