package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	postgresDriverName = "pgx"
	postgresSchema     = `CREATE TABLE IF NOT EXISTS snapshot (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`
	postgresSelect = `SELECT payload::text FROM snapshot WHERE id = 1`
	postgresUpsert = `INSERT INTO snapshot(id, payload, updated_at) VALUES(1, $1::jsonb, $2)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
)

// PostgresBackend stores the document as JSONB in Postgres.
type PostgresBackend struct {
	sqlBackend
}

// OpenPostgres connects to dsn and ensures the snapshot table exists.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresBackend, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%w: postgres dsn", ErrMissingSetting)
	}
	db, err := sql.Open(postgresDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure snapshot table: %w", err)
	}
	return &PostgresBackend{sqlBackend{
		db:     db,
		driver: DriverPostgres,
		load:   postgresSelect,
		store:  postgresUpsert,
		now:    time.Now,
	}}, nil
}
