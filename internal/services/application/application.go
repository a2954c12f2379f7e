// Package application implements the application half of the matching
// engine: applying to a posting, editing or withdrawing an application and
// the owner's accept/reject decision. The accept/reject path is the heart of
// the matcher: ownership and the pending-only transition are both enforced
// inside a single database transaction.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/models"
)

// Repository defines the storage methods used by the application service.
type Repository interface {
	// CreateApplication stores a new application and returns its ID.
	CreateApplication(ctx context.Context, a models.Application) (int, error)
	// GetApplication returns an application by ID.
	GetApplication(ctx context.Context, id int) (*models.Application, error)
	// UpdateApplication replaces the proposal fields of the stored row.
	UpdateApplication(ctx context.Context, a *models.Application) error
	// DeleteApplication removes the application unconditionally.
	DeleteApplication(ctx context.Context, id int) error
	// DecideApplication atomically sets the status of a pending application,
	// verifying that actorID owns the posting.
	DecideApplication(ctx context.Context, id int, actorID string, status models.Status) error
	// ListApplicationsForPosting returns all applications to the posting.
	ListApplicationsForPosting(ctx context.Context, postingID int) ([]*models.Application, error)
	// ListApplicationsByApplicant returns the applicant's applications of the
	// kind, joined with the current posting fields.
	ListApplicationsByApplicant(ctx context.Context, kind models.Kind, applicantID string) ([]*models.ApplicantEntry, error)
	// GetPosting returns a posting by ID.
	GetPosting(ctx context.Context, id int) (*models.Posting, error)
}

// Service implements the application operations.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New creates an application Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create applies the actor to a posting. Only the kind's applicant role may
// apply, the posting must exist and be of the kind, and a second application
// to the same posting is rejected as a conflict by the unique index. The
// applicant's name and contact data are snapshotted into the application and
// never refreshed afterwards.
func (s *Service) Create(ctx context.Context, actor *models.User, kind models.Kind, req models.ApplicationCreateRequest) (int, error) {
	const op = "application.Create"

	if actor.Role != kind.ApplicantRole() {
		return 0, fmt.Errorf("%s: role %q cannot apply to %s postings: %w",
			op, actor.Role, kind, apperr.ErrForbidden)
	}

	posting, err := s.repo.GetPosting(ctx, req.PostingID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if posting.Kind != kind {
		return 0, fmt.Errorf("%s: posting %d is not a %s: %w", op, req.PostingID, kind, apperr.ErrNotFound)
	}

	a := models.Application{
		Kind:        kind,
		PostingID:   posting.ID,
		ApplicantID: actor.ID,
		Status:      models.StatusPending,

		PostingTitle:   posting.Title,
		ApplicantName:  actor.Name,
		ApplicantPhone: actor.Phone,
		ApplicantEmail: actor.Email,

		Fee:          req.Fee,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Mode:         req.Mode,
		Address:      req.Address,
		DetailedAddr: req.DetailedAddr,
		Audience:     req.Audience,
		Personnel:    req.Personnel,
		Gender:       req.Gender,
	}
	if a.Date, err = parseDatePtr(req.Date); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if a.BirthDate, err = parseDatePtr(req.BirthDate); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateApplication(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created application",
		slog.Int("id", id),
		slog.Int("posting_id", posting.ID),
		slog.String("applicant", actor.ID))
	return id, nil
}

// Read returns the application. Only the applicant and the posting owner may
// see it.
func (s *Service) Read(ctx context.Context, actor *models.User, kind models.Kind, id int) (*models.Application, error) {
	const op = "application.Read"

	a, err := s.getKind(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if a.ApplicantID != actor.ID {
		posting, err := s.repo.GetPosting(ctx, a.PostingID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if posting.OwnerID != actor.ID {
			return nil, fmt.Errorf("%s: user %q is neither applicant nor owner: %w",
				op, actor.ID, apperr.ErrForbidden)
		}
	}
	return a, nil
}

// Update applies the non-nil proposal fields of req to the actor's own
// application. Snapshots and status are not touchable.
func (s *Service) Update(ctx context.Context, actor *models.User, kind models.Kind, id int, req models.ApplicationUpdateRequest) error {
	const op = "application.Update"

	a, err := s.getOwn(ctx, actor, kind, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if req.Fee != nil {
		a.Fee = req.Fee
	}
	if req.Date != nil {
		date, err := parseDatePtr(req.Date)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		a.Date = date
	}
	if req.StartTime != nil {
		a.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		a.EndTime = req.EndTime
	}
	if req.Mode != nil {
		a.Mode = req.Mode
	}
	if req.Address != nil {
		a.Address = req.Address
	}
	if req.DetailedAddr != nil {
		a.DetailedAddr = req.DetailedAddr
	}
	if req.Audience != nil {
		a.Audience = req.Audience
	}
	if req.Personnel != nil {
		a.Personnel = req.Personnel
	}
	if req.Gender != nil {
		a.Gender = req.Gender
	}

	if err := s.repo.UpdateApplication(ctx, a); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated application", slog.Int("id", id))
	return nil
}

// Withdraw removes the actor's own application. Withdrawal is allowed in any
// status, accepted included.
func (s *Service) Withdraw(ctx context.Context, actor *models.User, kind models.Kind, id int) error {
	const op = "application.Withdraw"

	if _, err := s.getOwn(ctx, actor, kind, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteApplication(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("withdrew application", slog.Int("id", id))
	return nil
}

// Accept marks a pending application accepted. Only the posting owner may
// decide, and a decided application cannot be decided again.
func (s *Service) Accept(ctx context.Context, actor *models.User, kind models.Kind, id int) error {
	return s.decide(ctx, actor, kind, id, models.StatusAccepted)
}

// Reject marks a pending application rejected under the same rules as Accept.
func (s *Service) Reject(ctx context.Context, actor *models.User, kind models.Kind, id int) error {
	return s.decide(ctx, actor, kind, id, models.StatusRejected)
}

func (s *Service) decide(ctx context.Context, actor *models.User, kind models.Kind, id int, status models.Status) error {
	const op = "application.decide"

	if _, err := s.getKind(ctx, kind, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DecideApplication(ctx, id, actor.ID, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("decided application", slog.Int("id", id), slog.String("status", string(status)))
	return nil
}

// ListForPosting returns every application to the posting, annotated with
// the matching-status label. Only the posting owner may list them; an empty
// list is a valid answer.
func (s *Service) ListForPosting(ctx context.Context, actor *models.User, kind models.Kind, postingID int) ([]*models.ApplicationWithStatus, error) {
	const op = "application.ListForPosting"

	posting, err := s.repo.GetPosting(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if posting.Kind != kind {
		return nil, fmt.Errorf("%s: posting %d is not a %s: %w", op, postingID, kind, apperr.ErrNotFound)
	}
	if posting.OwnerID != actor.ID {
		return nil, fmt.Errorf("%s: user %q does not own posting %d: %w",
			op, actor.ID, postingID, apperr.ErrForbidden)
	}

	apps, err := s.repo.ListApplicationsForPosting(ctx, postingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out := make([]*models.ApplicationWithStatus, 0, len(apps))
	for _, a := range apps {
		out = append(out, &models.ApplicationWithStatus{
			Application:    *a,
			MatchingStatus: a.Status.MatchingLabel(),
		})
	}
	return out, nil
}

// ListForApplicant returns the actor's application history for the kind,
// joined with the current posting fields. Zero results are reported as not
// found, matching the established API contract.
func (s *Service) ListForApplicant(ctx context.Context, actor *models.User, kind models.Kind) ([]*models.ApplicantEntry, error) {
	const op = "application.ListForApplicant"

	if actor.Role != kind.ApplicantRole() {
		return nil, fmt.Errorf("%s: role %q has no %s applications: %w",
			op, actor.Role, kind, apperr.ErrForbidden)
	}
	entries, err := s.repo.ListApplicationsByApplicant(ctx, kind, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%s: no applications: %w", op, apperr.ErrNotFound)
	}
	return entries, nil
}

func (s *Service) getKind(ctx context.Context, kind models.Kind, id int) (*models.Application, error) {
	a, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Kind != kind {
		return nil, fmt.Errorf("application %d is not a %s application: %w", id, kind, apperr.ErrNotFound)
	}
	return a, nil
}

func (s *Service) getOwn(ctx context.Context, actor *models.User, kind models.Kind, id int) (*models.Application, error) {
	a, err := s.getKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if a.ApplicantID != actor.ID {
		return nil, fmt.Errorf("application %d does not belong to %q: %w", id, actor.ID, apperr.ErrForbidden)
	}
	return a, nil
}

func parseDatePtr(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	date, err := time.Parse("2006-01-02", *value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", *value, apperr.ErrValidation)
	}
	return &date, nil
}
