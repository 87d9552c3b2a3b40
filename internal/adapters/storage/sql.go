package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// sqlBackend keeps the document in a single-row table.
type sqlBackend struct {
	db     *sql.DB
	driver Driver
	load   string
	store  string
	now    func() time.Time
}

func (s *sqlBackend) Driver() Driver { return s.driver }

// DB exposes the underlying handle for integration tests.
func (s *sqlBackend) DB() *sql.DB { return s.db }

func (s *sqlBackend) Read(ctx context.Context) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, ErrNotConfigured
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx, s.load).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	if len(payload) == 0 {
		return nil, ErrEmpty
	}
	return payload, nil
}

func (s *sqlBackend) Write(ctx context.Context, data []byte) error {
	if s == nil || s.db == nil {
		return ErrNotConfigured
	}
	if _, err := s.db.ExecContext(ctx, s.store, string(data), s.now().UTC()); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *sqlBackend) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
