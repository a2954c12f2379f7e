package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lecturelink/lecture-match/internal/models"
)

const userColumns = `id, name, password_hash, phone, email, role, registered_at, updated_at, disabled`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var updatedAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Phone, &u.Email,
		&u.Role, &u.RegisteredAt, &updatedAt, &u.Disabled); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		u.UpdatedAt = &updatedAt.Time
	}
	return u, nil
}

// CreateUser inserts a new user row. A taken id, phone or email surfaces as
// a conflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (id, name, password_hash, phone, email, role, registered_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.DB.ExecContext(ctx, query,
		user.ID, user.Name, user.PasswordHash, user.Phone, user.Email,
		user.Role, user.RegisteredAt); err != nil {
		return translateError(op, err)
	}
	return nil
}

// GetUser returns a user by id.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(op, err)
	}
	return u, nil
}

// GetUserByEmail returns a user by email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translateError(op, err)
	}
	return u, nil
}

// GetUserByPhone returns a user by phone number.
func (s *Storage) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	const op = "storage.GetUserByPhone"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, phone))
	if err != nil {
		return nil, translateError(op, err)
	}
	return u, nil
}

// GetUserByNameEmail returns a user by name and email, used by the find-id flow.
func (s *Storage) GetUserByNameEmail(ctx context.Context, name, email string) (*models.User, error) {
	const op = "storage.GetUserByNameEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE name = $1 AND email = $2`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, name, email))
	if err != nil {
		return nil, translateError(op, err)
	}
	return u, nil
}

// GetUserByIDEmail returns a user by id and email, used by the find-password flow.
func (s *Storage) GetUserByIDEmail(ctx context.Context, id, email string) (*models.User, error) {
	const op = "storage.GetUserByIDEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND email = $2`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id, email))
	if err != nil {
		return nil, translateError(op, err)
	}
	return u, nil
}

// UpdateUser writes the mutable profile fields back and stamps updated_at.
func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET name = $1, password_hash = $2, phone = $3, email = $4, updated_at = now()
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query,
		user.Name, user.PasswordHash, user.Phone, user.Email, user.ID)
	if err != nil {
		return translateError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return translateError(op, sql.ErrNoRows)
	}
	return nil
}

// UpdatePassword overwrites the stored hash, used by the find-password flow.
func (s *Storage) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return translateError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return translateError(op, sql.ErrNoRows)
	}
	return nil
}
