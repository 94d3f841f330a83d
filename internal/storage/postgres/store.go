// Package postgres is the PostgreSQL driver for the employee and performance stores.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrperf/internal/domain/apperr"
	"hrperf/internal/domain/employee"
	"hrperf/internal/domain/performance"
)

type Store struct {
	DB *pgxpool.Pool
}

var (
	_ employee.Store    = (*Store)(nil)
	_ performance.Store = (*Store)(nil)
)

func New(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func (s *Store) Close() {
	s.DB.Close()
}

// mapError turns driver errors into apperr sentinels: unique violations become conflicts,
// foreign key violations and missing rows become not found.
func mapError(err error, subject string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", subject, apperr.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", subject, apperr.ErrConflict)
		case "23503":
			return fmt.Errorf("%s references unknown employee: %w", subject, apperr.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", subject, err)
}
