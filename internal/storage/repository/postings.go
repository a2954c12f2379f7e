package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/models"
)

const postingColumns = `id, kind, owner_id, title, description, audience, mode, closed,
			      date, start_time, end_time, qualifications, place, detailed_address,
			      capacity, fee, duration_hours, max_capacity, portfolio_url`

func scanPosting(row interface{ Scan(...any) error }) (*models.Posting, error) {
	p := &models.Posting{}
	var date sql.NullTime
	var startTime, endTime, qualifications, place, detailedAddr, portfolioURL sql.NullString
	var capacity, fee, durationHours, maxCapacity sql.NullInt64

	if err := row.Scan(&p.ID, &p.Kind, &p.OwnerID, &p.Title, &p.Description,
		&p.Audience, &p.Mode, &p.Closed, &date, &startTime, &endTime,
		&qualifications, &place, &detailedAddr, &capacity, &fee,
		&durationHours, &maxCapacity, &portfolioURL); err != nil {
		return nil, err
	}

	if date.Valid {
		p.Date = &date.Time
	}
	p.StartTime = nullString(startTime)
	p.EndTime = nullString(endTime)
	p.Qualifications = nullString(qualifications)
	p.Place = nullString(place)
	p.DetailedAddr = nullString(detailedAddr)
	p.Capacity = nullInt(capacity)
	p.Fee = nullInt(fee)
	p.DurationHours = nullInt(durationHours)
	p.MaxCapacity = nullInt(maxCapacity)
	p.PortfolioURL = nullString(portfolioURL)
	return p, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

// CreatePosting inserts a posting and returns its id.
func (s *Storage) CreatePosting(ctx context.Context, p models.Posting) (int, error) {
	const op = "storage.CreatePosting"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO postings (kind, owner_id, title, description, audience, mode, closed,
			      date, start_time, end_time, qualifications, place, detailed_address,
			      capacity, fee, duration_hours, max_capacity, portfolio_url)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		p.Kind, p.OwnerID, p.Title, p.Description, p.Audience, p.Mode, p.Closed,
		p.Date, p.StartTime, p.EndTime, p.Qualifications, p.Place, p.DetailedAddr,
		p.Capacity, p.Fee, p.DurationHours, p.MaxCapacity, p.PortfolioURL).Scan(&newID)
	if err != nil {
		return 0, translateError(op, err)
	}
	return newID, nil
}

// GetPosting returns a posting by id.
func (s *Storage) GetPosting(ctx context.Context, id int) (*models.Posting, error) {
	const op = "storage.GetPosting"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + postingColumns + ` FROM postings WHERE id = $1`
	p, err := scanPosting(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(op, err)
	}
	return p, nil
}

// UpdatePosting writes the merged posting row back. The service applies
// partial-update semantics before calling this.
func (s *Storage) UpdatePosting(ctx context.Context, p *models.Posting) error {
	const op = "storage.UpdatePosting"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE postings
			  SET title = $1, description = $2, audience = $3, mode = $4,
			      date = $5, start_time = $6, end_time = $7, qualifications = $8,
			      place = $9, detailed_address = $10, capacity = $11, fee = $12,
			      duration_hours = $13, max_capacity = $14, portfolio_url = $15
			  WHERE id = $16`
	result, err := s.DB.ExecContext(ctx, query,
		p.Title, p.Description, p.Audience, p.Mode,
		p.Date, p.StartTime, p.EndTime, p.Qualifications,
		p.Place, p.DetailedAddr, p.Capacity, p.Fee,
		p.DurationHours, p.MaxCapacity, p.PortfolioURL, p.ID)
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

// DeletePostingIfNoApplies deletes a posting only when no application
// references it. The existence check and the delete run in one transaction,
// so a concurrent apply cannot slip between them.
func (s *Storage) DeletePostingIfNoApplies(ctx context.Context, id int) error {
	const op = "storage.DeletePostingIfNoApplies"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM postings
			  WHERE id = $1
			    AND NOT EXISTS (SELECT 1 FROM applications WHERE posting_id = $1)`
	result, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return translateError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM postings WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
		return fmt.Errorf("%s: has applicants: %w", op, apperr.ErrConflict)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ClosePosting sets the lifecycle flag. Closing an already closed posting is
// a no-op, which makes the operation idempotent.
func (s *Storage) ClosePosting(ctx context.Context, id int) error {
	const op = "storage.ClosePosting"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE postings SET closed = TRUE WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
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

func collectPostings(rows *sql.Rows) ([]*models.Posting, error) {
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListPostings returns all postings of a kind.
func (s *Storage) ListPostings(ctx context.Context, kind models.Kind) ([]*models.Posting, error) {
	const op = "storage.ListPostings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + postingColumns + ` FROM postings WHERE kind = $1 ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectPostings(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SearchPostings returns postings of a kind whose title or description
// contains the query. The match is a case-sensitive substring match.
func (s *Storage) SearchPostings(ctx context.Context, kind models.Kind, query string) ([]*models.Posting, error) {
	const op = "storage.SearchPostings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	stmt := `SELECT ` + postingColumns + `
			 FROM postings
			 WHERE kind = $1
			   AND (title LIKE '%' || $2 || '%' OR description LIKE '%' || $2 || '%')
			 ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, stmt, kind, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectPostings(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPostingsByOwner returns the postings of one owner, newest last.
func (s *Storage) ListPostingsByOwner(ctx context.Context, kind models.Kind, ownerID string) ([]*models.Posting, error) {
	const op = "storage.ListPostingsByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + postingColumns + `
			  FROM postings
			  WHERE kind = $1 AND owner_id = $2
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, kind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result, err := collectPostings(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
