// Package posting implements the posting half of the matching engine:
// creation, editing, lifecycle and the public listing/search projections.
// Every operation is parameterized by models.Kind, so lecture requests and
// programs share one implementation.
package posting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lecturelink/lecture-match/internal/apperr"
	"github.com/lecturelink/lecture-match/internal/lib/sl"
	"github.com/lecturelink/lecture-match/internal/lib/textfmt"
	"github.com/lecturelink/lecture-match/internal/models"
)

const (
	descriptionPreview = 50
	audiencePreview    = 10
)

// Repository defines the storage methods used by the posting service.
type Repository interface {
	// CreatePosting stores a new posting and returns its ID.
	CreatePosting(ctx context.Context, p models.Posting) (int, error)
	// GetPosting returns a posting by ID.
	GetPosting(ctx context.Context, id int) (*models.Posting, error)
	// UpdatePosting replaces the stored row with p.
	UpdatePosting(ctx context.Context, p *models.Posting) error
	// DeletePostingIfNoApplies deletes the posting atomically, failing with
	// a conflict when applications reference it.
	DeletePostingIfNoApplies(ctx context.Context, id int) error
	// ClosePosting marks the posting closed; closing twice is a no-op.
	ClosePosting(ctx context.Context, id int) error
	// ListPostings returns all postings of the kind.
	ListPostings(ctx context.Context, kind models.Kind) ([]*models.Posting, error)
	// SearchPostings returns postings of the kind whose title or description
	// contains the query.
	SearchPostings(ctx context.Context, kind models.Kind, query string) ([]*models.Posting, error)
	// ListPostingsByOwner returns the owner's postings of the kind.
	ListPostingsByOwner(ctx context.Context, kind models.Kind, ownerID string) ([]*models.Posting, error)
	// GetApplicationByPostingAndUser returns the user's application to the
	// posting, if any.
	GetApplicationByPostingAndUser(ctx context.Context, postingID int, userID string) (*models.Application, error)
}

// Cache describes the read-through cache for listing projections.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service implements the posting operations on top of Repository and Cache.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New creates a posting Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func listCacheKey(kind models.Kind) string {
	return fmt.Sprintf("postings:%s", kind)
}

func (s *Service) invalidateList(kind models.Kind) {
	key := listCacheKey(kind)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", key), sl.Err(err))
	}
}

// Create validates and stores a new posting. Only users holding the kind's
// owner role may create one.
func (s *Service) Create(ctx context.Context, actor *models.User, kind models.Kind, req models.PostingCreateRequest) (int, error) {
	const op = "posting.Create"

	if actor.Role != kind.OwnerRole() {
		return 0, fmt.Errorf("%s: role %q cannot create %s postings: %w",
			op, actor.Role, kind, apperr.ErrForbidden)
	}
	if err := checkKindFields(kind, req); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	p := models.Posting{
		Kind:        kind,
		OwnerID:     actor.ID,
		Title:       req.Title,
		Description: req.Description,
		Audience:    req.Audience,
		Mode:        req.Mode,

		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Qualifications: req.Qualifications,
		Place:          req.Place,
		DetailedAddr:   req.DetailedAddr,
		Capacity:       req.Capacity,
		Fee:            req.Fee,

		DurationHours: req.DurationHours,
		MaxCapacity:   req.MaxCapacity,
		PortfolioURL:  req.PortfolioURL,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		p.Date = &date
	}

	id, err := s.repo.CreatePosting(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created posting", slog.Int("id", id), slog.String("kind", string(kind)))

	s.invalidateList(kind)
	return id, nil
}

// Update applies the non-nil fields of req to the actor's posting.
func (s *Service) Update(ctx context.Context, actor *models.User, kind models.Kind, id int, req models.PostingUpdateRequest) error {
	const op = "posting.Update"

	p, err := s.getOwned(ctx, actor, kind, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Audience != nil {
		p.Audience = *req.Audience
	}
	if req.Mode != nil {
		p.Mode = *req.Mode
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		p.Date = &date
	}
	if req.StartTime != nil {
		p.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		p.EndTime = req.EndTime
	}
	if req.Qualifications != nil {
		p.Qualifications = req.Qualifications
	}
	if req.Place != nil {
		p.Place = req.Place
	}
	if req.DetailedAddr != nil {
		p.DetailedAddr = req.DetailedAddr
	}
	if req.Capacity != nil {
		p.Capacity = req.Capacity
	}
	if req.Fee != nil {
		p.Fee = req.Fee
	}
	if req.DurationHours != nil {
		p.DurationHours = req.DurationHours
	}
	if req.MaxCapacity != nil {
		p.MaxCapacity = req.MaxCapacity
	}
	if req.PortfolioURL != nil {
		p.PortfolioURL = req.PortfolioURL
	}

	if p.Mode != "online" && p.Place == nil {
		return fmt.Errorf("%s: place is required for offline postings: %w", op, apperr.ErrValidation)
	}

	if err := s.repo.UpdatePosting(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("updated posting", slog.Int("id", id))

	s.invalidateList(kind)
	return nil
}

// Delete removes the actor's posting. Postings with applicants cannot be
// deleted; the repository reports that as a conflict.
func (s *Service) Delete(ctx context.Context, actor *models.User, kind models.Kind, id int) error {
	const op = "posting.Delete"

	if _, err := s.getOwned(ctx, actor, kind, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeletePostingIfNoApplies(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted posting", slog.Int("id", id))

	s.invalidateList(kind)
	return nil
}

// Close marks the actor's posting closed. Closing an already closed posting
// succeeds without effect; there is no reopen.
func (s *Service) Close(ctx context.Context, actor *models.User, kind models.Kind, id int) error {
	const op = "posting.Close"

	if _, err := s.getOwned(ctx, actor, kind, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.ClosePosting(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("closed posting", slog.Int("id", id))

	s.invalidateList(kind)
	return nil
}

// List returns the display projection of every posting of the kind. An empty
// board is reported as not found, matching the established API contract.
func (s *Service) List(ctx context.Context, kind models.Kind) ([]*models.PostingSummary, error) {
	const op = "posting.List"

	var summaries []*models.PostingSummary
	cacheKey := listCacheKey(kind)
	found, err := s.cache.Get(cacheKey, &summaries)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && len(summaries) > 0 {
		return summaries, nil
	}

	postings, err := s.repo.ListPostings(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(postings) == 0 {
		return nil, fmt.Errorf("%s: no postings: %w", op, apperr.ErrNotFound)
	}

	summaries = summarize(postings)
	if err := s.cache.Set(cacheKey, summaries, time.Hour); err != nil {
		s.log.Warn("failed to cache postings", slog.String("key", cacheKey), sl.Err(err))
	}
	return summaries, nil
}

// Search returns the display projection of postings whose title or
// description contains query. Zero matches are reported as not found.
func (s *Service) Search(ctx context.Context, kind models.Kind, query string) ([]*models.PostingSummary, error) {
	const op = "posting.Search"

	postings, err := s.repo.SearchPostings(ctx, kind, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(postings) == 0 {
		return nil, fmt.Errorf("%s: no matches: %w", op, apperr.ErrNotFound)
	}
	return summarize(postings), nil
}

// ListByOwner returns the actor's own postings of the kind, full rows.
func (s *Service) ListByOwner(ctx context.Context, actor *models.User, kind models.Kind) ([]*models.Posting, error) {
	const op = "posting.ListByOwner"

	if actor.Role != kind.OwnerRole() {
		return nil, fmt.Errorf("%s: role %q owns no %s postings: %w",
			op, actor.Role, kind, apperr.ErrForbidden)
	}
	postings, err := s.repo.ListPostingsByOwner(ctx, kind, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(postings) == 0 {
		return nil, fmt.Errorf("%s: no postings: %w", op, apperr.ErrNotFound)
	}
	return postings, nil
}

// Detail returns the full posting together with the viewer-derived flags:
// whether the viewer owns it and whether the viewer has already applied.
func (s *Service) Detail(ctx context.Context, viewer *models.User, kind models.Kind, id int) (*models.PostingDetail, error) {
	const op = "posting.Detail"

	p, err := s.getKind(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	detail := &models.PostingDetail{
		Posting: *p,
		IsOwner: viewer.ID == p.OwnerID,
	}
	if !detail.IsOwner && viewer.Role == kind.ApplicantRole() {
		app, err := s.repo.GetApplicationByPostingAndUser(ctx, id, viewer.ID)
		if err == nil {
			detail.IsApplied = true
			detail.ApplicationID = &app.ID
		} else if !errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return detail, nil
}

// getKind loads the posting and hides postings of the other kind behind a
// not-found, so request and program URL spaces stay disjoint.
func (s *Service) getKind(ctx context.Context, kind models.Kind, id int) (*models.Posting, error) {
	p, err := s.repo.GetPosting(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Kind != kind {
		return nil, fmt.Errorf("posting %d is not a %s: %w", id, kind, apperr.ErrNotFound)
	}
	return p, nil
}

func (s *Service) getOwned(ctx context.Context, actor *models.User, kind models.Kind, id int) (*models.Posting, error) {
	p, err := s.getKind(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actor.ID {
		return nil, fmt.Errorf("user %q does not own posting %d: %w", actor.ID, id, apperr.ErrForbidden)
	}
	return p, nil
}

// checkKindFields enforces the per-kind required fields that the generic
// create form cannot express with validator tags alone.
func checkKindFields(kind models.Kind, req models.PostingCreateRequest) error {
	if req.Mode != "online" && req.Place == nil {
		return fmt.Errorf("place is required for offline postings: %w", apperr.ErrValidation)
	}
	switch kind {
	case models.KindLectureRequest:
		if req.Date == nil || req.StartTime == nil || req.EndTime == nil {
			return fmt.Errorf("date, start_time and end_time are required: %w", apperr.ErrValidation)
		}
		if req.Fee == nil {
			return fmt.Errorf("fee is required: %w", apperr.ErrValidation)
		}
	case models.KindProgram:
		if req.DurationHours == nil {
			return fmt.Errorf("duration_hours is required: %w", apperr.ErrValidation)
		}
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, apperr.ErrValidation)
	}
	return date, nil
}

// summarize builds the list projection: long text shortened for display and
// the date rendered with its Korean weekday label.
func summarize(postings []*models.Posting) []*models.PostingSummary {
	summaries := make([]*models.PostingSummary, 0, len(postings))
	for _, p := range postings {
		s := &models.PostingSummary{
			ID:          p.ID,
			Kind:        p.Kind,
			OwnerID:     p.OwnerID,
			Title:       p.Title,
			Description: textfmt.Shorten(p.Description, descriptionPreview),
			Audience:    textfmt.Shorten(p.Audience, audiencePreview),
			Mode:        p.Mode,
			Closed:      p.Closed,
			StartTime:   p.StartTime,
			EndTime:     p.EndTime,
			Place:       p.Place,
			Fee:         p.Fee,
			Capacity:    p.Capacity,

			DurationHours: p.DurationHours,
			MaxCapacity:   p.MaxCapacity,
			PortfolioURL:  p.PortfolioURL,
		}
		if p.Date != nil {
			label := textfmt.FormatDate(*p.Date)
			s.DateLabel = &label
		}
		summaries = append(summaries, s)
	}
	return summaries
}
