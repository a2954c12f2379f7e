package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/models"
)

const applicationColumns = `id, kind, posting_id, applicant_id, status, created_at,
			      posting_title, applicant_name, applicant_phone, applicant_email,
			      fee, date, start_time, end_time, mode, address, detailed_address,
			      audience, personnel, birth_date, gender`

func scanApplication(row interface{ Scan(...any) error }) (*models.Application, error) {
	a := &models.Application{}
	var date, birthDate sql.NullTime
	var startTime, endTime, mode, address, detailedAddr, audience, gender sql.NullString
	var fee, personnel sql.NullInt64

	if err := row.Scan(&a.ID, &a.Kind, &a.PostingID, &a.ApplicantID, &a.Status,
		&a.CreatedAt, &a.PostingTitle, &a.ApplicantName, &a.ApplicantPhone,
		&a.ApplicantEmail, &fee, &date, &startTime, &endTime, &mode, &address,
		&detailedAddr, &audience, &personnel, &birthDate, &gender); err != nil {
		return nil, err
	}

	a.Fee = nullInt(fee)
	if date.Valid {
		a.Date = &date.Time
	}
	a.StartTime = nullString(startTime)
	a.EndTime = nullString(endTime)
	a.Mode = nullString(mode)
	a.Address = nullString(address)
	a.DetailedAddr = nullString(detailedAddr)
	a.Audience = nullString(audience)
	a.Personnel = nullInt(personnel)
	if birthDate.Valid {
		a.BirthDate = &birthDate.Time
	}
	a.Gender = nullString(gender)
	return a, nil
}

// CreateApplication inserts an application and returns its id. The unique
// index on (posting_id, applicant_id) turns a duplicate apply into a
// conflict, and the foreign keys reject references to missing rows.
func (s *Storage) CreateApplication(ctx context.Context, a models.Application) (int, error) {
	const op = "storage.CreateApplication"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO applications (kind, posting_id, applicant_id, status,
			      posting_title, applicant_name, applicant_phone, applicant_email,
			      fee, date, start_time, end_time, mode, address, detailed_address,
			      audience, personnel, birth_date, gender)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		a.Kind, a.PostingID, a.ApplicantID, a.Status,
		a.PostingTitle, a.ApplicantName, a.ApplicantPhone, a.ApplicantEmail,
		a.Fee, a.Date, a.StartTime, a.EndTime, a.Mode, a.Address, a.DetailedAddr,
		a.Audience, a.Personnel, a.BirthDate, a.Gender).Scan(&newID)
	if err != nil {
		return 0, translateError(op, err)
	}
	return newID, nil
}

// GetApplication returns an application by id.
func (s *Storage) GetApplication(ctx context.Context, id int) (*models.Application, error) {
	const op = "storage.GetApplication"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translateError(op, err)
	}
	return a, nil
}

// GetApplicationByPostingAndUser returns the application a user made for a
// posting, or not found.
func (s *Storage) GetApplicationByPostingAndUser(ctx context.Context, postingID int, userID string) (*models.Application, error) {
	const op = "storage.GetApplicationByPostingAndUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + applicationColumns + `
			  FROM applications
			  WHERE posting_id = $1 AND applicant_id = $2`
	a, err := scanApplication(s.DB.QueryRowContext(ctx, query, postingID, userID))
	if err != nil {
		return nil, translateError(op, err)
	}
	return a, nil
}

// UpdateApplication writes the proposal fields back. Status and snapshots
// are deliberately not part of the statement.
func (s *Storage) UpdateApplication(ctx context.Context, a *models.Application) error {
	const op = "storage.UpdateApplication"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE applications
			  SET fee = $1, date = $2, start_time = $3, end_time = $4, mode = $5,
			      address = $6, detailed_address = $7, audience = $8, personnel = $9,
			      gender = $10
			  WHERE id = $11`
	result, err := s.DB.ExecContext(ctx, query,
		a.Fee, a.Date, a.StartTime, a.EndTime, a.Mode,
		a.Address, a.DetailedAddr, a.Audience, a.Personnel, a.Gender, a.ID)
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

// DeleteApplication removes an application unconditionally. Withdrawal has
// no status guard: even an accepted application can be withdrawn.
func (s *Storage) DeleteApplication(ctx context.Context, id int) error {
	const op = "storage.DeleteApplication"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM applications WHERE id = $1`
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

// DecideApplication sets the status to accepted or rejected on behalf of
// actorID. Everything runs in one transaction: the row is locked, the actor
// must own the referenced posting, and the update only touches rows still
// pending. A second decision on the same application comes back as a
// conflict instead of silently overwriting the first.
func (s *Storage) DecideApplication(ctx context.Context, id int, actorID string, status models.Status) error {
	const op = "storage.DecideApplication"
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

	var ownerID string
	var current models.Status
	query := `SELECT p.owner_id, a.status
			  FROM applications a
			  JOIN postings p ON p.id = a.posting_id
			  WHERE a.id = $1
			  FOR UPDATE OF a`
	if err := tx.QueryRowContext(ctx, query, id).Scan(&ownerID, &current); err != nil {
		return translateError(op, err)
	}
	if ownerID != actorID {
		return fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	if current != models.StatusPending {
		return fmt.Errorf("%s: already %s: %w", op, current, apperr.ErrConflict)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2 AND status = 'pending'`,
		status, id)
	if err != nil {
		return translateError(op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListApplicationsForPosting returns every application referencing a posting.
func (s *Storage) ListApplicationsForPosting(ctx context.Context, postingID int) ([]*models.Application, error) {
	const op = "storage.ListApplicationsForPosting"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + applicationColumns + `
			  FROM applications
			  WHERE posting_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, postingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListApplicationsByApplicant returns the applicant's applications of a kind
// together with the current posting row each one references.
func (s *Storage) ListApplicationsByApplicant(ctx context.Context, kind models.Kind, applicantID string) ([]*models.ApplicantEntry, error) {
	const op = "storage.ListApplicationsByApplicant"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT a.id, a.kind, a.posting_id, a.applicant_id, a.status, a.created_at,
			      a.posting_title, a.applicant_name, a.applicant_phone, a.applicant_email,
			      a.fee, a.date, a.start_time, a.end_time, a.mode, a.address, a.detailed_address,
			      a.audience, a.personnel, a.birth_date, a.gender,
			      p.id, p.kind, p.owner_id, p.title, p.description, p.audience, p.mode, p.closed,
			      p.date, p.start_time, p.end_time, p.qualifications, p.place, p.detailed_address,
			      p.capacity, p.fee, p.duration_hours, p.max_capacity, p.portfolio_url
			  FROM applications a
			  JOIN postings p ON p.id = a.posting_id
			  WHERE a.kind = $1 AND a.applicant_id = $2
			  ORDER BY a.id`
	rows, err := s.DB.QueryContext(ctx, query, kind, applicantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ApplicantEntry
	for rows.Next() {
		entry, err := scanApplicantEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func scanApplicantEntry(rows *sql.Rows) (*models.ApplicantEntry, error) {
	entry := &models.ApplicantEntry{}
	a := &entry.Application
	p := &entry.Posting

	var aDate, aBirthDate, pDate sql.NullTime
	var aStartTime, aEndTime, aMode, aAddress, aDetailedAddr, aAudience, aGender sql.NullString
	var aFee, aPersonnel sql.NullInt64
	var pStartTime, pEndTime, pQualifications, pPlace, pDetailedAddr, pPortfolioURL sql.NullString
	var pCapacity, pFee, pDurationHours, pMaxCapacity sql.NullInt64

	if err := rows.Scan(&a.ID, &a.Kind, &a.PostingID, &a.ApplicantID, &a.Status,
		&a.CreatedAt, &a.PostingTitle, &a.ApplicantName, &a.ApplicantPhone,
		&a.ApplicantEmail, &aFee, &aDate, &aStartTime, &aEndTime, &aMode,
		&aAddress, &aDetailedAddr, &aAudience, &aPersonnel, &aBirthDate, &aGender,
		&p.ID, &p.Kind, &p.OwnerID, &p.Title, &p.Description, &p.Audience,
		&p.Mode, &p.Closed, &pDate, &pStartTime, &pEndTime, &pQualifications,
		&pPlace, &pDetailedAddr, &pCapacity, &pFee, &pDurationHours,
		&pMaxCapacity, &pPortfolioURL); err != nil {
		return nil, err
	}

	a.Fee = nullInt(aFee)
	if aDate.Valid {
		a.Date = &aDate.Time
	}
	a.StartTime = nullString(aStartTime)
	a.EndTime = nullString(aEndTime)
	a.Mode = nullString(aMode)
	a.Address = nullString(aAddress)
	a.DetailedAddr = nullString(aDetailedAddr)
	a.Audience = nullString(aAudience)
	a.Personnel = nullInt(aPersonnel)
	if aBirthDate.Valid {
		a.BirthDate = &aBirthDate.Time
	}
	a.Gender = nullString(aGender)

	if pDate.Valid {
		p.Date = &pDate.Time
	}
	p.StartTime = nullString(pStartTime)
	p.EndTime = nullString(pEndTime)
	p.Qualifications = nullString(pQualifications)
	p.Place = nullString(pPlace)
	p.DetailedAddr = nullString(pDetailedAddr)
	p.Capacity = nullInt(pCapacity)
	p.Fee = nullInt(pFee)
	p.DurationHours = nullInt(pDurationHours)
	p.MaxCapacity = nullInt(pMaxCapacity)
	p.PortfolioURL = nullString(pPortfolioURL)

	entry.MatchingStatus = a.Status.MatchingLabel()
	return entry, nil
}
