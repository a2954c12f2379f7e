// Package repository implements the PostgreSQL store for users, postings and
// applications. Mutations that must be atomic under concurrent callers
// (deciding an application, deleting a posting without applicants) run as
// guarded statements inside a single transaction here rather than as
// check-then-act sequences in the service layer.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	// pgx driver registration for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lecturelink/lecture-match/internal/apperr"
)

// Storage wraps the PostgreSQL connection pool.
type Storage struct {
	DB *sql.DB
}

// New opens the connection and verifies it with a ping.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady verifies that the schema has been migrated.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	const op = "storage.CheckDatabaseReady"

	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'postings'
    )`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: required table postings missing", op)
	}
	return nil
}

// translateError maps low-level database failures onto the service error
// taxonomy: no rows -> not found, unique violation -> conflict, foreign key
// violation -> the referenced entity does not exist.
func translateError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
